// Package detect defines the interface for PII detectors.
package detect

import (
	"context"

	"audio-privacy-pipeline/internal/models"
)

// Detector finds PII spans in a text. Implementations run independently
// over the same original transcript; overlap between detectors is resolved
// downstream by the redactor, never here.
type Detector interface {
	// Detect returns labeled character spans found in text. Offsets are
	// byte offsets into text. May return an empty slice.
	Detect(ctx context.Context, text string) ([]models.PiiSpan, error)

	// Source identifies the detector variant for span attribution.
	Source() models.SpanSource
}
