// Package mock provides a PII detector with canned responses for testing
// and local development without a NER service.
package mock

import (
	"context"
	"regexp"

	"audio-privacy-pipeline/internal/models"
)

// Names that the mock recognizes as PERSON entities, standing in for a
// statistical recognizer.
var knownNames = regexp.MustCompile(`\b(John|Alice|Bob|Sarah|Michael)\b`)

// Detector implements detect.Detector with a fixed name list.
type Detector struct {
	// Err, when set, is returned by Detect. Used to exercise the
	// detector-failure path.
	Err error
	// Spans, when non-nil, is returned verbatim instead of matching names.
	Spans []models.PiiSpan
}

// New creates a mock entity detector.
func New() *Detector {
	return &Detector{}
}

// Source implements detect.Detector.
func (d *Detector) Source() models.SpanSource {
	return models.SourceEntity
}

// Detect returns canned or name-matched PERSON spans.
func (d *Detector) Detect(_ context.Context, text string) ([]models.PiiSpan, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	if d.Spans != nil {
		return d.Spans, nil
	}

	var spans []models.PiiSpan
	for _, loc := range knownNames.FindAllStringIndex(text, -1) {
		spans = append(spans, models.PiiSpan{
			Start:  loc[0],
			End:    loc[1],
			Label:  "PERSON",
			Source: models.SourceEntity,
		})
	}
	return spans, nil
}
