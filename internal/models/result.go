// Package models defines the data structures shared across pipeline stages.
package models

import "fmt"

// Word is a single transcribed word with an optional per-word confidence.
// HasConfidence is false when the source engine only reports segment-level
// probabilities.
type Word struct {
	Text          string  `json:"text"`
	Confidence    float64 `json:"confidence,omitempty"`
	HasConfidence bool    `json:"-"`
}

// Transcript is the immutable output of the transcription stage.
// Text is never mutated after construction; redaction produces a new string.
type Transcript struct {
	Text  string `json:"text"`
	Words []Word `json:"words,omitempty"`
}

// TrustLevel is the discrete trust label derived from the combined score.
type TrustLevel string

const (
	TrustLow    TrustLevel = "LOW"
	TrustMedium TrustLevel = "MEDIUM"
	TrustHigh   TrustLevel = "HIGH"
)

// TrustAssessment is the fused confidence result for one transcript.
// Score keeps full precision; DisplayScore is what goes into payloads
// and the audit log.
type TrustAssessment struct {
	Score float64    `json:"score"`
	Level TrustLevel `json:"level"`
}

// DisplayScore returns the score rounded to two decimal digits for display.
// Numeric comparisons must use Score, not this.
func (t TrustAssessment) DisplayScore() string {
	return fmt.Sprintf("%.2f", t.Score)
}

// SpanSource identifies which detector produced a PII span.
type SpanSource string

const (
	// SourcePattern marks spans from the deterministic pattern detector.
	SourcePattern SpanSource = "PATTERN"
	// SourceEntity marks spans from the statistical entity recognizer.
	SourceEntity SpanSource = "ENTITY"
)

// PiiSpan is a half-open character range [Start, End) in the original
// transcript, labeled with a PII category and tagged with its detector.
// Invariant: 0 <= Start < End <= len(text). Spans from different detectors
// may overlap; the redactor owns span-to-span consistency.
type PiiSpan struct {
	Start  int        `json:"start"`
	End    int        `json:"end"`
	Label  string     `json:"label"`
	Source SpanSource `json:"source"`
}

// RedactionRecord is the audit-trail unit for one applied redaction.
// Original is the exact pre-redaction substring that the tag replaced;
// Start/End are offsets into the original transcript.
type RedactionRecord struct {
	Label    string     `json:"label"`
	Original string     `json:"original"`
	Start    int        `json:"start"`
	End      int        `json:"end"`
	Source   SpanSource `json:"source"`
}

// PipelineResult aggregates the output of one pipeline run. It is owned by
// exactly one run and never shared across runs.
type PipelineResult struct {
	RunID              string            `json:"runId"`
	InputName          string            `json:"inputName"`
	Transcript         Transcript        `json:"transcript"`
	Trust              TrustAssessment   `json:"trust"`
	TrustScore         string            `json:"trustScore"`
	RedactedTranscript string            `json:"redactedTranscript"`
	Redactions         []RedactionRecord `json:"redactions"`
	Summary            string            `json:"summary"`
	SummarySkipped     bool              `json:"summarySkipped"`
	SummaryAudioFile   string            `json:"summaryAudioFile"`
	SummaryAudioURL    string            `json:"summaryAudioUrl,omitempty"`
	CompletedAt        int64             `json:"completedAt"`
}
