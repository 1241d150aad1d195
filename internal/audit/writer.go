// Package audit writes the durable, human-readable record of a pipeline
// run.
//
// One plain-text file per run, fixed section markers suitable for
// downstream parsing. Redacted substrings come from the RedactionRecords'
// captured originals; they are never re-derived from the already-redacted
// transcript.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"audio-privacy-pipeline/internal/models"
	"audio-privacy-pipeline/internal/observability/metrics"
)

// Fixed markers for downstream parsers.
const (
	headerMarker = "--- AI AUDIO PIPELINE AUDIT LOG ---"
	footerMarker = "--- END OF LOG ---"
)

// Writer serializes run results into audit artifacts.
type Writer struct {
	dir     string
	metrics *metrics.Metrics
	now     func() time.Time
}

// New creates a Writer that stores artifacts in dir.
func New(dir string) *Writer {
	return &Writer{
		dir:     dir,
		metrics: metrics.DefaultMetrics,
		now:     time.Now,
	}
}

// Write renders the audit record for one run and persists it as
// audit_<runId>.log in the writer's directory. Returns the artifact path.
func (w *Writer) Write(result *models.PipelineResult) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		w.metrics.RecordAuditWrite(err)
		return "", fmt.Errorf("audit: create output dir: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("audit_%s.log", result.RunID))
	if err := os.WriteFile(path, []byte(Render(result, w.now())), 0o644); err != nil {
		w.metrics.RecordAuditWrite(err)
		return "", fmt.Errorf("audit: write artifact: %w", err)
	}

	w.metrics.RecordAuditWrite(nil)
	return path, nil
}

// Render produces the audit artifact text. Pure serialization; separated
// from Write so tests can assert the format without touching the
// filesystem.
func Render(result *models.PipelineResult, at time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", headerMarker)
	fmt.Fprintf(&b, "Run ID: %s\n", result.RunID)
	fmt.Fprintf(&b, "Processing Timestamp: %s\n", at.Format(time.RFC3339))
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", 40))

	fmt.Fprintf(&b, "[INPUT]\n")
	fmt.Fprintf(&b, "Source Audio File: %s\n\n", result.InputName)

	fmt.Fprintf(&b, "[TRANSCRIPTION & CONFIDENCE]\n")
	fmt.Fprintf(&b, "Confidence Score: %s (%s)\n", result.Trust.DisplayScore(), result.Trust.Level)
	fmt.Fprintf(&b, "Full Transcript (Original):\n---\n%s\n---\n\n", result.Transcript.Text)

	fmt.Fprintf(&b, "[PII REDACTION]\n")
	fmt.Fprintf(&b, "Items Redacted: %d\n", len(result.Redactions))
	for _, rec := range result.Redactions {
		fmt.Fprintf(&b, "  - Type: %s, Source: %s, Text: '%s' [%d:%d]\n",
			rec.Label, rec.Source, rec.Original, rec.Start, rec.End)
	}
	fmt.Fprintf(&b, "Final Redacted Transcript:\n---\n%s\n---\n\n", result.RedactedTranscript)

	fmt.Fprintf(&b, "[SUMMARIZATION]\n")
	if result.SummarySkipped {
		fmt.Fprintf(&b, "Summarization skipped (transcript under length gate)\n")
	}
	fmt.Fprintf(&b, "Summary Text:\n---\n%s\n---\n", result.Summary)
	fmt.Fprintf(&b, "Audio Summary saved to %s\n\n", result.SummaryAudioFile)

	b.WriteString(footerMarker)
	return b.String()
}
