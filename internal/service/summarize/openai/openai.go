// Package openai provides a summarization engine backed by the OpenAI API.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// summaryPrompt is the system prompt for the summarization call.
const summaryPrompt = `Summarize the following call transcript. Preserve the caller's intent, ` +
	`any commitments made, and concrete follow-ups. Do not include names, numbers, ` +
	`or other identifying details beyond what the transcript contains. Be concise.`

// Engine implements summarize.Engine using OpenAI chat completions.
type Engine struct {
	client oai.Client
	model  string
}

// New constructs an OpenAI summarization engine.
func New(apiKey, model string, timeout time.Duration) (*Engine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: apiKey must not be empty")
	}
	if model == "" {
		model = string(oai.ChatModelGPT4oMini)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if timeout > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: timeout}))
	}

	return &Engine{
		client: oai.NewClient(opts...),
		model:  model,
	}, nil
}

// Summarize sends the transcript to the model with the requested length
// bounds and returns the completion text verbatim.
func (e *Engine) Summarize(ctx context.Context, text string, minTokens, maxTokens int) (string, error) {
	resp, err := e.client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model: oai.ChatModel(e.model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(fmt.Sprintf("%s Use between %d and %d tokens.", summaryPrompt, minTokens, maxTokens)),
			oai.UserMessage(text),
		},
		MaxCompletionTokens: oai.Int(int64(maxTokens)),
		Temperature:         oai.Float(0.3),
	})
	if err != nil {
		return "", fmt.Errorf("openai: summarize: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
