// Package stt defines the interface for Speech-to-Text adapters.
package stt

import (
	"context"

	"audio-privacy-pipeline/internal/models"
)

// Segment is a per-segment transcription statistic, reported by engines
// that do not expose per-word confidences.
type Segment struct {
	Text       string
	AvgLogProb float64
}

// Result is one transcription outcome. Engines must supply at least one
// of the two confidence-signal shapes: per-word confidences on Words, or
// per-segment average log-probabilities on Segments.
type Result struct {
	Text string

	// Confidence is the engine's overall confidence, when reported.
	Confidence    float64
	HasConfidence bool

	Words    []models.Word
	Segments []Segment
}

// Adapter defines the interface for STT providers (Google, Whisper, etc.).
type Adapter interface {
	// Transcribe converts raw audio bytes into a transcription result.
	Transcribe(ctx context.Context, audio []byte) (*Result, error)

	// Provider returns the adapter name for logging and metrics.
	Provider() string

	// Close releases provider resources.
	Close() error
}

// WordConfidences extracts the per-word confidence values from a result,
// or nil when the engine did not report them.
func (r *Result) WordConfidences() []float64 {
	var out []float64
	for _, w := range r.Words {
		if w.HasConfidence {
			out = append(out, w.Confidence)
		}
	}
	return out
}

// SegmentLogProbs extracts the per-segment average log-probabilities.
func (r *Result) SegmentLogProbs() []float64 {
	var out []float64
	for _, s := range r.Segments {
		out = append(out, s.AvgLogProb)
	}
	return out
}
