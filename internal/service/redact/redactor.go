// Package redact merges PII spans from independent detectors and rewrites
// the transcript without corrupting offsets.
//
// Two detectors run over the same original text and may report overlapping
// spans, spans in arbitrary order, or spans with out-of-bounds ends.
// Overlaps are resolved before any mutation, then replacements are spliced
// in descending start order so that an applied splice never shifts the
// offsets of a span that is still pending: every pending span lies strictly
// to the left of the splice point.
package redact

import (
	"fmt"
	"sort"

	"audio-privacy-pipeline/internal/models"
)

// OverlapPolicy selects the primary tie-break between overlapping spans
// from different detectors.
type OverlapPolicy string

const (
	// PolicyPreferPattern gives deterministic pattern-detector spans
	// priority over entity-recognizer spans. Structured-format matches
	// (card numbers, SSNs, phone numbers) are higher precision, so this
	// is the default.
	PolicyPreferPattern OverlapPolicy = "prefer-pattern"
	// PolicyPreferLarger ignores the detector source and keeps the
	// larger span.
	PolicyPreferLarger OverlapPolicy = "prefer-larger"
)

// Redactor applies PII redactions. Stateless and safe for concurrent use.
type Redactor struct {
	policy OverlapPolicy
}

// New creates a Redactor with the given overlap policy. An empty policy
// defaults to PolicyPreferPattern.
func New(policy OverlapPolicy) *Redactor {
	if policy == "" {
		policy = PolicyPreferPattern
	}
	return &Redactor{policy: policy}
}

// Tag returns the replacement token for a PII label.
func Tag(label string) string {
	return fmt.Sprintf("[REDACTED_%s]", label)
}

// Redact rewrites text with one redaction tag per resolved span and returns
// the sanitized string plus provenance records. Records reference the
// original, pre-redaction substrings and are ordered by original start
// offset ascending. Zero spans returns the text unchanged with no records.
func (r *Redactor) Redact(text string, spans []models.PiiSpan) (string, []models.RedactionRecord) {
	resolved := r.resolve(text, spans)
	if len(resolved) == 0 {
		return text, nil
	}

	// Apply right to left. Each original substring is captured before the
	// splice touches its range.
	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].Start > resolved[j].Start
	})

	records := make([]models.RedactionRecord, 0, len(resolved))
	for _, sp := range resolved {
		records = append(records, models.RedactionRecord{
			Label:    sp.Label,
			Original: text[sp.Start:sp.End],
			Start:    sp.Start,
			End:      sp.End,
			Source:   sp.Source,
		})
		text = text[:sp.Start] + Tag(sp.Label) + text[sp.End:]
	}

	// Re-sort ascending for presentation, independent of application order.
	sort.Slice(records, func(i, j int) bool {
		return records[i].Start < records[j].Start
	})

	return text, records
}

// resolve clamps, validates, and de-conflicts the raw span set. The result
// is a set of non-overlapping spans; no character is ever redacted twice.
func (r *Redactor) resolve(text string, spans []models.PiiSpan) []models.PiiSpan {
	candidates := make([]models.PiiSpan, 0, len(spans))
	for _, sp := range spans {
		// An end past the text is a detector contract violation; clamp
		// instead of faulting.
		if sp.End > len(text) {
			sp.End = len(text)
		}
		if sp.Start < 0 {
			sp.Start = 0
		}
		if sp.Start >= sp.End {
			continue
		}
		candidates = append(candidates, sp)
	}

	// Order by precedence, then greedily keep spans that do not overlap
	// anything already kept.
	sort.SliceStable(candidates, func(i, j int) bool {
		return r.precedes(candidates[i], candidates[j])
	})

	kept := make([]models.PiiSpan, 0, len(candidates))
	for _, sp := range candidates {
		conflict := false
		for _, k := range kept {
			if sp.Start < k.End && k.Start < sp.End {
				conflict = true
				break
			}
		}
		if !conflict {
			kept = append(kept, sp)
		}
	}
	return kept
}

// precedes reports whether a wins over b when they conflict: detector
// precedence per policy, then larger span, then earliest start.
func (r *Redactor) precedes(a, b models.PiiSpan) bool {
	if r.policy == PolicyPreferPattern && a.Source != b.Source {
		return a.Source == models.SourcePattern
	}
	la, lb := a.End-a.Start, b.End-b.Start
	if la != lb {
		return la > lb
	}
	return a.Start < b.Start
}
