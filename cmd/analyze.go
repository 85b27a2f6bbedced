package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-reader/internal/ai"
	"github.com/kozaktomas/face-reader/internal/constants"
	"github.com/kozaktomas/face-reader/internal/facereading"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <photo>",
	Short: "Read a face from a local photo",
	Long: `Send a local photo to the configured vision model and print the
face-reading report.

Examples:
  # Print the report for the terminal
  face-reader analyze portrait.jpg

  # Print the raw report JSON (same body as POST /api/analyze)
  face-reader analyze --json portrait.jpg

  # Use a local Ollama model
  AI_PROVIDER=ollama face-reader analyze portrait.png`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Bool("json", false, "Output the report as JSON")
	analyzeCmd.Flags().Int("width", constants.TerminalWidth, "Wrap the text report at this many columns")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")
	width := mustGetInt(cmd, "width")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading photo: %w", err)
	}
	if int64(len(data)) > constants.MaxClientImageSize {
		return fmt.Errorf("%s is larger than %dMB", path, constants.MaxClientImageSize>>20)
	}
	info, err := ai.DetectImage(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer, err := facereading.NewAnalyzerFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating analyzer: %w", err)
	}

	var spinner *progressbar.ProgressBar
	if !jsonOutput {
		spinner = newAnalyzeSpinner(analyzer.Model())
	}
	stopSpinner := runSpinner(spinner)

	analysis, err := analyzer.Analyze(ctx, facereading.Image{
		Data:     data,
		MIMEType: info.MIMEType,
		Filename: filepath.Base(path),
	})
	stopSpinner()
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", path, err)
	}

	if jsonOutput {
		fmt.Println(string(analysis.Raw))
		return nil
	}

	if err := facereading.WriteText(os.Stdout, analysis.Report, width); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	printAnalysisSummary(analysis, info)
	return nil
}

// newAnalyzeSpinner creates an indeterminate progress bar on stderr.
func newAnalyzeSpinner(model string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(fmt.Sprintf("Reading face with %s", model)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionClearOnFinish(),
	)
}

// runSpinner animates bar until the returned stop function is called.
func runSpinner(bar *progressbar.ProgressBar) func() {
	if bar == nil {
		return func() {}
	}

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	return func() {
		close(done)
		<-finished
		_ = bar.Finish()
	}
}

// printAnalysisSummary prints model and cost details below the report.
func printAnalysisSummary(a *facereading.Analysis, info *ai.ImageInfo) {
	fmt.Println()
	fmt.Printf("Image:    %s %dx%d\n", info.Format, info.Width, info.Height)
	fmt.Printf("Model:    %s\n", a.Model)
	fmt.Printf("Tokens:   %d in / %d out\n", a.Usage.InputTokens, a.Usage.OutputTokens)
	if a.Cost > 0 {
		fmt.Printf("Cost:     $%.4f\n", a.Cost)
	}
	fmt.Printf("Duration: %s\n", a.Duration.Round(time.Millisecond))
	if a.Fallback {
		fmt.Println("Note:     the model did not return structured JSON; showing the default report")
	}
}
