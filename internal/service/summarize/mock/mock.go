// Package mock provides a deterministic summarization engine for testing
// and local development.
package mock

import (
	"context"
	"strings"
)

// Engine implements summarize.Engine by keeping the first sentences of the
// input, mirroring what an extractive baseline would do.
type Engine struct {
	// MaxSentences bounds the output. Zero means 3.
	MaxSentences int
	// Err, when set, is returned by Summarize.
	Err error
}

// New creates a mock summarization engine.
func New() *Engine {
	return &Engine{}
}

// Summarize returns the leading sentences of text.
func (e *Engine) Summarize(_ context.Context, text string, _, _ int) (string, error) {
	if e.Err != nil {
		return "", e.Err
	}

	max := e.MaxSentences
	if max <= 0 {
		max = 3
	}

	sentences := strings.SplitAfter(text, ". ")
	if len(sentences) > max {
		sentences = sentences[:max]
	}
	out := strings.TrimSpace(strings.Join(sentences, ""))
	if out != "" && !strings.HasSuffix(out, ".") {
		out += "."
	}
	return out, nil
}
