package pattern

import (
	"context"
	"testing"

	"audio-privacy-pipeline/internal/models"
)

func TestDetect_StructuredNumbers(t *testing.T) {
	d := New(nil)

	tests := []struct {
		name      string
		text      string
		wantLabel string
		wantText  string
	}{
		{"dashed phone", "call me at 555-123-4567 today", "PHONE", "555-123-4567"},
		{"dotted phone", "fax 555.123.4567 works", "PHONE", "555.123.4567"},
		{"ssn", "my ssn is 123-45-6789 ok", "SSN", "123-45-6789"},
		{"card", "card 4111111111111111 thanks", "CREDIT_CARD", "4111111111111111"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans, err := d.Detect(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Detect: %v", err)
			}

			found := false
			for _, sp := range spans {
				if sp.Label == tt.wantLabel && tt.text[sp.Start:sp.End] == tt.wantText {
					found = true
					if sp.Source != models.SourcePattern {
						t.Errorf("source = %s, want PATTERN", sp.Source)
					}
				}
			}
			if !found {
				t.Errorf("no %s span over %q in %v", tt.wantLabel, tt.wantText, spans)
			}
		})
	}
}

func TestDetect_CleanTextYieldsNoSpans(t *testing.T) {
	d := New(nil)

	spans, err := d.Detect(context.Background(), "nothing sensitive here, just words")
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(spans) != 0 {
		t.Errorf("expected no spans, got %v", spans)
	}
}

func TestDetect_SpanOffsetsValid(t *testing.T) {
	d := New(nil)

	text := "555-123-4567 and 123-45-6789"
	spans, err := d.Detect(context.Background(), text)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(spans) == 0 {
		t.Fatal("expected spans")
	}
	for _, sp := range spans {
		if sp.Start < 0 || sp.End > len(text) || sp.Start >= sp.End {
			t.Errorf("invalid span %+v for text length %d", sp, len(text))
		}
	}
}
