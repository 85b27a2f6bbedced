package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// ChatProvider talks to any OpenAI-compatible chat completions endpoint
// (Zhipu BigModel, OpenAI itself, llama.cpp server).
type ChatProvider struct {
	client *openai.Client
	name   string
	model  string
}

// NewChatProvider creates a provider for the endpoint at baseURL. An empty
// baseURL targets api.openai.com. SDK-level retries are disabled: every
// analysis makes exactly one upstream call.
func NewChatProvider(name, baseURL, apiKey, model string, opts ...option.RequestOption) *ChatProvider {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(normalizeBaseURL(baseURL)))
	}
	clientOpts = append(clientOpts, opts...)

	client := openai.NewClient(clientOpts...)
	return &ChatProvider{
		client: &client,
		name:   name,
		model:  model,
	}
}

func (p *ChatProvider) Name() string {
	return p.model
}

// Complete sends one user message holding the inlined image followed by the prompt text.
func (p *ChatProvider) Complete(ctx context.Context, req Request) (*Reply, error) {
	imageURL := dataURL(req.MIMEType, base64.StdEncoding.EncodeToString(req.ImageData))

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
							openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
								URL: imageURL,
							}),
							openai.TextContentPart(req.Prompt),
						},
					},
				},
			},
		},
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &StatusError{Provider: p.name, StatusCode: apiErr.StatusCode, Body: apiErr.Message}
		}
		return nil, fmt.Errorf("%s API error: %w", p.name, err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrEmptyReply
	}

	return &Reply{
		Content: resp.Choices[0].Message.Content,
		Model:   p.model,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

// normalizeBaseURL accepts either an API root or the full chat completions
// endpoint and returns the root with a trailing slash.
func normalizeBaseURL(u string) string {
	u = strings.TrimSuffix(strings.TrimSpace(u), "/")
	u = strings.TrimSuffix(u, "/chat/completions")
	return u + "/"
}
