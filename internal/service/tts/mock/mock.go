// Package mock provides a deterministic speech synthesis engine for
// testing and local development.
package mock

import (
	"context"
	"fmt"
)

// Engine implements tts.Engine with fabricated audio bytes.
type Engine struct {
	// Err, when set, is returned by Synthesize. Used to exercise the
	// synthesis-failure path.
	Err error
}

// New creates a mock TTS engine.
func New() *Engine {
	return &Engine{}
}

// Provider implements tts.Engine.
func (e *Engine) Provider() string { return "mock" }

// Synthesize returns placeholder bytes derived from the text length.
func (e *Engine) Synthesize(_ context.Context, text string) ([]byte, error) {
	if e.Err != nil {
		return nil, e.Err
	}
	return []byte(fmt.Sprintf("MOCK-AUDIO:%d", len(text))), nil
}

// Close implements tts.Engine.
func (e *Engine) Close() error { return nil }
