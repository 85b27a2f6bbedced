package facereading

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/width"

	"github.com/kozaktomas/face-reader/internal/constants"
)

// WriteText renders a report for a terminal, wrapping body text to the given
// display width (CJK characters occupy two columns).
func WriteText(w io.Writer, r *Report, lineWidth int) error {
	if lineWidth <= 0 {
		lineWidth = constants.TerminalWidth
	}

	bw := bufio.NewWriter(w)
	for i, s := range Render(r) {
		if i > 0 {
			bw.WriteString("\n")
		}

		heading := s.Icon + " " + s.Title
		if s.Subtitle != "" {
			heading += " · " + s.Subtitle
		}
		fmt.Fprintln(bw, heading)

		if len(s.Items) == 0 {
			writeWrapped(bw, s.Text, "  ", lineWidth)
			continue
		}
		for _, it := range s.Items {
			label := "  " + it.Icon + " " + it.Name
			if it.Desc != "" {
				label += " (" + it.Desc + ")"
			}
			fmt.Fprintln(bw, label)
			writeWrapped(bw, it.Text, "    ", lineWidth)
		}
	}
	return bw.Flush()
}

func writeWrapped(w io.Writer, text, indent string, lineWidth int) {
	limit := lineWidth - len(indent)
	if limit < 10 {
		limit = 10
	}
	for _, line := range wrapText(text, limit) {
		fmt.Fprintln(w, indent+line)
	}
}

// runeWidth is the number of terminal columns r occupies.
func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

func stringWidth(s []rune) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

func lastSpace(s []rune) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ' ' {
			return i
		}
	}
	return -1
}

// wrapText splits text into lines no wider than limit columns. Latin words
// are kept whole when a space is available to break on; CJK text breaks
// between any two characters.
func wrapText(text string, limit int) []string {
	var lines []string
	for _, para := range strings.Split(strings.TrimSpace(text), "\n") {
		var line []rune
		w := 0
		for _, r := range para {
			rw := runeWidth(r)
			if w+rw > limit && len(line) > 0 {
				if r == ' ' {
					lines = append(lines, string(line))
					line, w = nil, 0
					continue
				}
				if sp := lastSpace(line); sp > 0 {
					lines = append(lines, strings.TrimRight(string(line[:sp]), " "))
					line = append([]rune(nil), line[sp+1:]...)
				} else {
					lines = append(lines, string(line))
					line = nil
				}
				w = stringWidth(line)
			}
			line = append(line, r)
			w += rw
		}
		lines = append(lines, string(line))
	}
	return lines
}
