package facereading

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/face-reader/internal/ai"
	"github.com/kozaktomas/face-reader/internal/config"
	"github.com/kozaktomas/face-reader/internal/constants"
	"github.com/kozaktomas/face-reader/internal/logger"
)

// Image is an uploaded photo.
type Image struct {
	Data     []byte
	MIMEType string
	Filename string
}

// Analysis is the outcome of one successful Analyze call.
type Analysis struct {
	ID string
	// Raw is the exact JSON object to return to the client.
	Raw json.RawMessage
	// Report is Raw decoded best-effort, for renderers that need typed fields.
	Report *Report
	// Fallback is set when the reply held no parseable JSON and Raw is the canned report.
	Fallback bool
	Model    string
	Usage    ai.Usage
	Cost     float64 // USD
	Duration time.Duration
}

// Options tune a single Analyzer. The zero value sends the original image with temperature 0.
type Options struct {
	Temperature    float64
	MaxImageSize   int
	RequestTimeout time.Duration
	Pricing        config.RequestPricing
}

// Analyzer sends a photo with the face-reading prompt to a provider and
// turns the reply into a report. It holds no mutable state and is safe for
// concurrent use.
type Analyzer struct {
	provider ai.Provider
	opts     Options
}

func NewAnalyzer(provider ai.Provider, opts Options) *Analyzer {
	return &Analyzer{
		provider: provider,
		opts:     opts,
	}
}

// NewAnalyzerFromConfig wires the configured provider and its pricing.
func NewAnalyzerFromConfig(ctx context.Context, cfg *config.Config) (*Analyzer, error) {
	provider, err := ai.NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewAnalyzer(provider, Options{
		Temperature:    cfg.AI.Temperature,
		MaxImageSize:   cfg.AI.MaxImageSize,
		RequestTimeout: cfg.AI.RequestTimeout,
		Pricing:        cfg.GetModelPricing(provider.Name()),
	}), nil
}

// Model returns the name of the model behind the analyzer.
func (a *Analyzer) Model() string {
	return a.provider.Name()
}

// Analyze makes exactly one provider call. Upstream failures and empty
// replies are returned as errors (*ai.StatusError, ai.ErrEmptyReply); a reply
// without parseable JSON is not an error and yields the fallback report.
func (a *Analyzer) Analyze(ctx context.Context, img Image) (*Analysis, error) {
	start := time.Now()
	id := uuid.NewString()
	log := logger.Log.WithFields(logrus.Fields{
		"analysis": id,
		"model":    a.provider.Name(),
	})

	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = constants.DefaultImageMIMEType
	}
	data, mimeType, err := ai.PrepareImage(img.Data, mimeType, a.opts.MaxImageSize)
	if err != nil {
		return nil, fmt.Errorf("preparing image: %w", err)
	}

	log.WithFields(logrus.Fields{"bytes": len(data), "type": mimeType}).Info("Calling model")

	if a.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.RequestTimeout)
		defer cancel()
	}

	reply, err := a.provider.Complete(ctx, ai.Request{
		Prompt:      Prompt(),
		ImageData:   data,
		MIMEType:    mimeType,
		Temperature: a.opts.Temperature,
	})
	if err != nil {
		log.WithError(err).Error("Model call failed")
		return nil, fmt.Errorf("calling %s: %w", a.provider.Name(), err)
	}

	// Only a literally empty reply is an error; whitespace still gets the fallback report.
	content := reply.Content
	if content == "" {
		log.Error("Model returned an empty reply")
		return nil, ai.ErrEmptyReply
	}

	analysis := &Analysis{
		ID:    id,
		Model: reply.Model,
		Usage: reply.Usage,
		Cost:  a.opts.Pricing.Cost(reply.Usage.InputTokens, reply.Usage.OutputTokens),
	}

	raw, err := ExtractReport(content)
	if err != nil {
		log.WithError(err).
			WithField("reply", truncateRunes(content, constants.LogReplyPreviewLength)).
			Warn("Model reply has no usable JSON, serving fallback report")

		report := Fallback(content)
		fallbackRaw, marshalErr := json.Marshal(report)
		if marshalErr != nil {
			return nil, fmt.Errorf("encoding fallback report: %w", marshalErr)
		}
		analysis.Raw = fallbackRaw
		analysis.Report = report
		analysis.Fallback = true
	} else {
		report, decodeErr := DecodeReport(raw)
		if decodeErr != nil {
			log.WithError(decodeErr).Warn("Model JSON does not match the report shape")
		}
		if missing := report.Missing(); len(missing) > 0 {
			log.WithField("missing", strings.Join(missing, ",")).Warn("Model JSON is missing report fields")
		}
		analysis.Raw = raw
		analysis.Report = report
	}

	analysis.Duration = time.Since(start)
	log.WithFields(logrus.Fields{
		"fallback":      analysis.Fallback,
		"input_tokens":  analysis.Usage.InputTokens,
		"output_tokens": analysis.Usage.OutputTokens,
		"cost_usd":      fmt.Sprintf("%.6f", analysis.Cost),
		"duration":      analysis.Duration.Round(time.Millisecond),
	}).Info("Analysis complete")

	return analysis, nil
}
