// Package summarize provides the length-gated summarization adapter.
//
// The gate is a real contract, not an optimization: the external model
// degrades below a minimum input length, so short transcripts get a fixed
// sentinel instead of a model call.
package summarize

import (
	"context"
	"strings"
)

// TooShortSentinel is returned for transcripts under the word threshold.
const TooShortSentinel = "Transcript too short to summarize."

// Default gate and length bounds.
const (
	DefaultMinWords  = 50
	DefaultMinTokens = 30
	DefaultMaxTokens = 150
)

// Engine is the external summarization interface.
type Engine interface {
	// Summarize condenses text within the given token-equivalent bounds.
	Summarize(ctx context.Context, text string, minTokens, maxTokens int) (string, error)
}

// Config holds the gate threshold and delegation bounds.
type Config struct {
	MinWords  int
	MinTokens int
	MaxTokens int
}

// DefaultConfig returns the standard gate configuration.
func DefaultConfig() Config {
	return Config{
		MinWords:  DefaultMinWords,
		MinTokens: DefaultMinTokens,
		MaxTokens: DefaultMaxTokens,
	}
}

// Summarizer wraps an Engine with the length gate.
type Summarizer struct {
	engine Engine
	cfg    Config
}

// New creates a Summarizer around the given engine.
func New(engine Engine, cfg Config) *Summarizer {
	return &Summarizer{engine: engine, cfg: cfg}
}

// Summarize returns the engine's summary, or the sentinel (with
// skipped=true and no engine call) when text is under the word threshold.
func (s *Summarizer) Summarize(ctx context.Context, text string) (summary string, skipped bool, err error) {
	if len(strings.Fields(text)) < s.cfg.MinWords {
		return TooShortSentinel, true, nil
	}

	out, err := s.engine.Summarize(ctx, text, s.cfg.MinTokens, s.cfg.MaxTokens)
	if err != nil {
		return "", false, err
	}
	return out, false, nil
}
