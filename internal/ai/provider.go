package ai

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyReply is returned when the upstream answered 2xx without any text.
var ErrEmptyReply = errors.New("empty reply from model")

// Provider defines the interface for vision model backends.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (*Reply, error)
}

// Request is a single-turn multimodal prompt: one image followed by instruction text.
type Request struct {
	Prompt      string
	ImageData   []byte
	MIMEType    string
	Temperature float64
}

// Reply is the model's free-text answer plus token accounting for this call only.
type Reply struct {
	Content string
	Model   string
	Usage   Usage
}

// Usage tracks token counts of a single call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// StatusError is returned when the upstream API answered with a non-2xx status.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s API error (status %d)", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// dataURL inlines image bytes as an RFC 2397 data URL.
func dataURL(mimeType, base64Data string) string {
	return "data:" + mimeType + ";base64," + base64Data
}
