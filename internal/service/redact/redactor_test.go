package redact

import (
	"sort"
	"strings"
	"testing"

	"audio-privacy-pipeline/internal/models"
)

func span(start, end int, label string, src models.SpanSource) models.PiiSpan {
	return models.PiiSpan{Start: start, End: end, Label: label, Source: src}
}

func TestRedact_NoSpansIsIdentity(t *testing.T) {
	r := New(PolicyPreferPattern)

	text := "already clean text with a [REDACTED_PHONE] tag in it"
	got, records := r.Redact(text, nil)

	if got != text {
		t.Errorf("text changed: %q", got)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestRedact_PatternWinsOverlappingEntity(t *testing.T) {
	r := New(PolicyPreferPattern)

	text := "Call 555-123-4567 or ask John"
	phoneStart := strings.Index(text, "555")
	phoneEnd := phoneStart + len("555-123-4567")
	johnStart := strings.Index(text, "John")

	spans := []models.PiiSpan{
		// Entity detector reported out of order, with a bogus span over
		// the phone number that conflicts with the pattern match.
		span(johnStart, johnStart+4, "PERSON", models.SourceEntity),
		span(phoneStart-1, phoneEnd, "PERSON", models.SourceEntity),
		span(phoneStart, phoneEnd, "PHONE", models.SourcePattern),
	}

	got, records := r.Redact(text, spans)

	want := "Call [REDACTED_PHONE] or ask [REDACTED_PERSON]"
	if got != want {
		t.Errorf("redacted = %q, want %q", got, want)
	}
	if strings.Count(got, "[REDACTED_PHONE]") != 1 {
		t.Errorf("phone must be redacted exactly once: %q", got)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Label != "PHONE" || records[0].Original != "555-123-4567" {
		t.Errorf("first record = %+v", records[0])
	}
	if records[1].Label != "PERSON" || records[1].Original != "John" {
		t.Errorf("second record = %+v", records[1])
	}
}

func TestRedact_SameSourceLargerSpanWins(t *testing.T) {
	r := New(PolicyPreferPattern)

	text := "born on January 5th 1990 in Berlin"
	spans := []models.PiiSpan{
		span(8, 15, "DATE", models.SourceEntity),  // "January"
		span(8, 24, "DATE", models.SourceEntity),  // "January 5th 1990"
		span(28, 34, "GPE", models.SourceEntity),  // "Berlin"
	}

	got, records := r.Redact(text, spans)

	want := "born on [REDACTED_DATE] in [REDACTED_GPE]"
	if got != want {
		t.Errorf("redacted = %q, want %q", got, want)
	}
	if records[0].Original != "January 5th 1990" {
		t.Errorf("larger span should win, got %q", records[0].Original)
	}
}

func TestRedact_SpanCoveringEntireText(t *testing.T) {
	r := New(PolicyPreferPattern)

	text := "4111 1111 1111 1111"
	got, records := r.Redact(text, []models.PiiSpan{
		span(0, len(text), "CREDIT_CARD", models.SourcePattern),
	})

	if got != "[REDACTED_CREDIT_CARD]" {
		t.Errorf("got %q", got)
	}
	if len(records) != 1 || records[0].Original != text {
		t.Errorf("record must carry the whole original text: %+v", records)
	}
}

func TestRedact_OutOfBoundsEndClamped(t *testing.T) {
	r := New(PolicyPreferPattern)

	text := "ask John"
	got, records := r.Redact(text, []models.PiiSpan{
		span(4, 50, "PERSON", models.SourceEntity),
	})

	if got != "ask [REDACTED_PERSON]" {
		t.Errorf("got %q", got)
	}
	if records[0].End != len(text) {
		t.Errorf("end not clamped: %d", records[0].End)
	}
}

func TestRedact_InvalidSpansDropped(t *testing.T) {
	r := New(PolicyPreferPattern)

	text := "nothing to see"
	got, records := r.Redact(text, []models.PiiSpan{
		span(5, 5, "PERSON", models.SourceEntity),
		span(9, 3, "PERSON", models.SourceEntity),
		span(200, 300, "PERSON", models.SourceEntity),
	})

	if got != text || len(records) != 0 {
		t.Errorf("degenerate spans must be no-ops: %q %v", got, records)
	}
}

func TestRedact_PreferLargerPolicy(t *testing.T) {
	r := New(PolicyPreferLarger)

	text := "id 123-45-6789 extended"
	spans := []models.PiiSpan{
		span(3, 14, "SSN", models.SourcePattern),
		span(3, 23, "PERSON", models.SourceEntity), // larger, overlapping
	}

	got, _ := r.Redact(text, spans)
	if got != "id [REDACTED_PERSON]" {
		t.Errorf("larger span should win under prefer-larger: %q", got)
	}
}

// Splicing each record's original substring back into its tag position must
// reconstruct the input exactly.
func TestRedact_RoundTripReconstruction(t *testing.T) {
	r := New(PolicyPreferPattern)

	text := "John called 555-123-4567 about card 4111111111111111 from Acme Corp on Tuesday"
	spans := []models.PiiSpan{
		span(0, 4, "PERSON", models.SourceEntity),
		span(12, 24, "PHONE", models.SourcePattern),
		span(36, 52, "CREDIT_CARD", models.SourcePattern),
		span(58, 67, "ORG", models.SourceEntity),
		span(71, 78, "DATE", models.SourceEntity),
	}

	redacted, records := r.Redact(text, spans)

	// Rebuild by replacing tags right to left in the redacted string.
	rebuilt := redacted
	byStart := append([]models.RedactionRecord(nil), records...)
	sort.Slice(byStart, func(i, j int) bool { return byStart[i].Start > byStart[j].Start })
	for _, rec := range byStart {
		tag := Tag(rec.Label)
		idx := strings.LastIndex(rebuilt, tag)
		if idx < 0 {
			t.Fatalf("tag %s missing from %q", tag, rebuilt)
		}
		rebuilt = rebuilt[:idx] + rec.Original + rebuilt[idx+len(tag):]
	}

	if rebuilt != text {
		t.Errorf("round trip failed:\n got  %q\n want %q", rebuilt, text)
	}
}

func TestRedact_RecordsAscendingByStart(t *testing.T) {
	r := New(PolicyPreferPattern)

	text := "Alice met Bob near 555-123-4567"
	spans := []models.PiiSpan{
		span(19, 31, "PHONE", models.SourcePattern),
		span(10, 13, "PERSON", models.SourceEntity),
		span(0, 5, "PERSON", models.SourceEntity),
	}

	_, records := r.Redact(text, spans)
	for i := 1; i < len(records); i++ {
		if records[i-1].Start > records[i].Start {
			t.Errorf("records not ascending: %+v", records)
		}
	}
}
