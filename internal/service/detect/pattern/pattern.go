// Package pattern provides the deterministic PII detector for structured
// numbers: card numbers, national IDs, phone numbers.
package pattern

import (
	"context"
	"regexp"

	"audio-privacy-pipeline/internal/models"
)

// Rule is one detection rule: a label and the regex that matches it.
type Rule struct {
	Label   string
	Pattern *regexp.Regexp
}

// DefaultRules returns the built-in structured-number rules. Rule order
// matters when matches overlap: earlier rules take precedence downstream
// because they produce larger matches first.
func DefaultRules() []Rule {
	return []Rule{
		{Label: "CREDIT_CARD", Pattern: regexp.MustCompile(`\b(?:\d[ -]*?){13,16}\b`)},
		{Label: "SSN", Pattern: regexp.MustCompile(`\b\d{3}[-\s]?\d{2}[-\s]?\d{4}\b`)},
		{Label: "PHONE", Pattern: regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)},
	}
}

// Detector implements detect.Detector with regex rules. Safe for
// concurrent use; compiled rules are read-only after construction.
type Detector struct {
	rules []Rule
}

// New creates a pattern detector. Nil rules means DefaultRules.
func New(rules []Rule) *Detector {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Detector{rules: rules}
}

// Source implements detect.Detector.
func (d *Detector) Source() models.SpanSource {
	return models.SourcePattern
}

// Detect runs every rule over the text and returns all matches tagged with
// the pattern source. Matches from different rules may overlap; the
// redactor resolves that.
func (d *Detector) Detect(_ context.Context, text string) ([]models.PiiSpan, error) {
	var spans []models.PiiSpan
	for _, rule := range d.rules {
		for _, loc := range rule.Pattern.FindAllStringIndex(text, -1) {
			spans = append(spans, models.PiiSpan{
				Start:  loc[0],
				End:    loc[1],
				Label:  rule.Label,
				Source: models.SourcePattern,
			})
		}
	}
	return spans, nil
}
