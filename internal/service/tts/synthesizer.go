// Package tts defines the interface for speech synthesis engines.
package tts

import "context"

// Engine converts text into audio bytes.
type Engine interface {
	// Synthesize renders text to encoded audio (MP3 unless the
	// implementation documents otherwise).
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// Provider returns the engine name for logging and metrics.
	Provider() string

	// Close releases engine resources.
	Close() error
}
