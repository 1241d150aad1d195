// Package pipeline sequences transcription, scoring, redaction,
// summarization, and synthesis into one run, and owns error propagation
// and input artifact lifecycle.
//
// Data flows strictly forward; no stage re-enters an earlier one. The two
// PII detectors are independent and run concurrently. Engine handles are
// constructed once at startup and passed in explicitly; they are read-only
// here and shared safely across concurrent runs. Each run owns its own
// input file and output artifact.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"audio-privacy-pipeline/internal/audit"
	"audio-privacy-pipeline/internal/events"
	"audio-privacy-pipeline/internal/models"
	"audio-privacy-pipeline/internal/observability/logging"
	"audio-privacy-pipeline/internal/observability/metrics"
	"audio-privacy-pipeline/internal/service/detect"
	"audio-privacy-pipeline/internal/service/redact"
	"audio-privacy-pipeline/internal/service/scoring"
	"audio-privacy-pipeline/internal/service/signal"
	"audio-privacy-pipeline/internal/service/stt"
	"audio-privacy-pipeline/internal/service/summarize"
	"audio-privacy-pipeline/internal/service/tts"
)

// Engines is the registry of external model handles, constructed once at
// process start. Never looked up through globals.
type Engines struct {
	Transcriber stt.Adapter
	Detectors   []detect.Detector
	Summarizer  summarize.Engine
	Synthesizer tts.Engine
}

// Timeouts bounds each external engine call. A timeout surfaces as that
// stage's failure kind, never as an indefinite hang.
type Timeouts struct {
	Transcribe time.Duration
	Detect     time.Duration
	Summarize  time.Duration
	Synthesize time.Duration
}

// Input identifies one audio recording to process. When Cleanup is true
// the orchestrator owns Path and removes it on every exit path, success
// or error.
type Input struct {
	Name    string
	Path    string
	Cleanup bool
}

// Orchestrator runs the pipeline. Safe for concurrent runs; all fields
// are read-only after construction.
type Orchestrator struct {
	engines    Engines
	scorer     *scoring.Scorer
	redactor   *redact.Redactor
	summarizer *summarize.Summarizer
	auditor    *audit.Writer
	publisher  *events.Publisher
	timeouts   Timeouts
	outputDir  string
	metrics    *metrics.Metrics
}

// New creates an Orchestrator. auditor and publisher may be nil, which
// disables the audit artifact and completion events respectively (used by
// tests exercising the core sequencing).
func New(
	engines Engines,
	scorer *scoring.Scorer,
	redactor *redact.Redactor,
	summarizer *summarize.Summarizer,
	auditor *audit.Writer,
	publisher *events.Publisher,
	timeouts Timeouts,
	outputDir string,
) *Orchestrator {
	return &Orchestrator{
		engines:    engines,
		scorer:     scorer,
		redactor:   redactor,
		summarizer: summarizer,
		auditor:    auditor,
		publisher:  publisher,
		timeouts:   timeouts,
		outputDir:  outputDir,
		metrics:    metrics.DefaultMetrics,
	}
}

// Run executes the full pipeline for one input and returns the aggregate
// result. On error the returned *StageError carries the failing stage's
// kind; the input artifact is released either way.
func (o *Orchestrator) Run(ctx context.Context, input Input) (result *models.PipelineResult, err error) {
	runId := uuid.NewString()
	logger := logging.WithRun(runId)
	start := time.Now()

	o.metrics.RecordRunStart()
	defer func() {
		failedStage := ""
		if err != nil {
			failedStage = "unknown"
			var se *StageError
			if errors.As(err, &se) {
				failedStage = se.Stage
			}
		}
		o.metrics.RecordRunEnd(failedStage, time.Since(start).Seconds())
	}()

	if input.Cleanup {
		defer func() {
			if rmErr := os.Remove(input.Path); rmErr != nil && !os.IsNotExist(rmErr) {
				logger.Warn().Err(rmErr).Str("path", input.Path).Msg("Failed to remove input artifact")
			}
		}()
	}

	audio, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, stageErr(FailureInput, "input", err)
	}

	logger.Info().Str("input", input.Name).Int("bytes", len(audio)).Msg("Pipeline run started")

	// 1. Transcription. The one unconditionally fatal stage: no text, no run.
	transcript, sttResult, err := o.transcribe(ctx, runId, audio)
	if err != nil {
		return nil, err
	}

	// 2. Confidence scoring. Never fails; degenerate signals map to
	// defined extremes inside the scorer.
	trust := o.score(runId, audio, sttResult)
	o.metrics.RecordTrustLevel(string(trust.Level))

	// 3. PII detection, both detectors over the same original text.
	spans, err := o.detectPII(ctx, runId, transcript.Text)
	if err != nil {
		return nil, err
	}

	// 4. Redaction.
	stageStart := time.Now()
	redacted, records := o.redactor.Redact(transcript.Text, spans)
	o.metrics.RecordStage("redact", time.Since(stageStart).Seconds())
	o.metrics.RecordSpanConflicts(len(spans) - len(records))
	for _, rec := range records {
		o.metrics.RecordRedaction(rec.Label, string(rec.Source))
	}

	// 5. Summarization of the original transcript, behind the length gate.
	summary, skipped, err := o.summarize(ctx, runId, transcript.Text)
	if err != nil {
		return nil, err
	}

	// 6. Speech synthesis of the summary.
	audioFile, err := o.synthesize(ctx, runId, summary)
	if err != nil {
		return nil, err
	}

	result = &models.PipelineResult{
		RunID:              runId,
		InputName:          input.Name,
		Transcript:         transcript,
		Trust:              trust,
		TrustScore:         trust.DisplayScore(),
		RedactedTranscript: redacted,
		Redactions:         records,
		Summary:            summary,
		SummarySkipped:     skipped,
		SummaryAudioFile:   audioFile,
		CompletedAt:        time.Now().UnixMilli(),
	}

	auditPath := ""
	if o.auditor != nil {
		auditPath, err = o.auditor.Write(result)
		if err != nil {
			return nil, stageErr(FailureAudit, "audit", err)
		}
	}

	o.publishCompleted(ctx, result, auditPath)

	logger.Info().
		Str("trustLevel", string(trust.Level)).
		Int("redactions", len(records)).
		Bool("summarySkipped", skipped).
		Dur("duration", time.Since(start)).
		Msg("Pipeline run completed")

	return result, nil
}

func (o *Orchestrator) transcribe(ctx context.Context, runId string, audio []byte) (models.Transcript, *stt.Result, error) {
	logger := logging.WithEngine(runId, "stt", o.engines.Transcriber.Provider())
	stageStart := time.Now()

	tctx, cancel := withTimeout(ctx, o.timeouts.Transcribe)
	defer cancel()

	res, err := o.engines.Transcriber.Transcribe(tctx, audio)
	o.metrics.RecordStage("transcribe", time.Since(stageStart).Seconds())
	if err != nil {
		o.metrics.RecordEngineError("stt", o.engines.Transcriber.Provider())
		logger.Error().Err(err).Msg("Transcription failed")
		return models.Transcript{}, nil, stageErr(FailureTranscription, "transcribe", err)
	}
	if strings.TrimSpace(res.Text) == "" {
		logger.Error().Msg("Transcription returned empty text")
		return models.Transcript{}, nil, stageErr(FailureTranscription, "transcribe", ErrEmptyTranscript)
	}

	return models.Transcript{Text: res.Text, Words: res.Words}, res, nil
}

func (o *Orchestrator) score(runId string, audio []byte, res *stt.Result) models.TrustAssessment {
	logger := logging.WithStage(runId, "score")
	stageStart := time.Now()
	defer func() {
		o.metrics.RecordStage("score", time.Since(stageStart).Seconds())
	}()

	snrDb, err := signal.SNRDb(audio)
	if err != nil {
		// Undecodable audio is a quality signal in itself: score the
		// SNR term at the floor instead of failing the run.
		logger.Warn().Err(err).Msg("SNR unavailable, scoring at floor")
		snrDb = 0
	}

	return o.scorer.Score(scoring.Signals{
		APIConfidence:      res.Confidence,
		HasAPIConfidence:   res.HasConfidence,
		SNRDb:              snrDb,
		WordConfidences:    res.WordConfidences(),
		SegmentAvgLogProbs: res.SegmentLogProbs(),
	})
}

// detectPII runs every detector concurrently over the same original text
// and pools their spans. Any detector error fails the run: a partially
// redacted transcript must not ship under a success status.
func (o *Orchestrator) detectPII(ctx context.Context, runId, text string) ([]models.PiiSpan, error) {
	stageStart := time.Now()
	defer func() {
		o.metrics.RecordStage("detect", time.Since(stageStart).Seconds())
	}()

	dctx, cancel := withTimeout(ctx, o.timeouts.Detect)
	defer cancel()

	var mu sync.Mutex
	var spans []models.PiiSpan

	g, gctx := errgroup.WithContext(dctx)
	for _, d := range o.engines.Detectors {
		d := d
		g.Go(func() error {
			found, err := d.Detect(gctx, text)
			if err != nil {
				o.metrics.RecordEngineError("detector", string(d.Source()))
				lg := logging.WithStage(runId, "detect")
				lg.Error().
					Err(err).
					Str("source", string(d.Source())).
					Msg("PII detector failed")
				return fmt.Errorf("%s detector: %w", d.Source(), err)
			}
			mu.Lock()
			spans = append(spans, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stageErr(FailureDetector, "detect", err)
	}
	return spans, nil
}

func (o *Orchestrator) summarize(ctx context.Context, runId, text string) (string, bool, error) {
	stageStart := time.Now()
	defer func() {
		o.metrics.RecordStage("summarize", time.Since(stageStart).Seconds())
	}()

	sctx, cancel := withTimeout(ctx, o.timeouts.Summarize)
	defer cancel()

	summary, skipped, err := o.summarizer.Summarize(sctx, text)
	if err != nil {
		o.metrics.RecordEngineError("summarizer", "")
		return "", false, stageErr(FailureSummarization, "summarize", err)
	}
	if skipped {
		o.metrics.RecordSummarySkipped()
		lg := logging.WithStage(runId, "summarize")
		lg.Info().Msg("Summarization skipped by length gate")
	}
	return summary, skipped, nil
}

func (o *Orchestrator) synthesize(ctx context.Context, runId, summary string) (string, error) {
	logger := logging.WithEngine(runId, "tts", o.engines.Synthesizer.Provider())
	stageStart := time.Now()
	defer func() {
		o.metrics.RecordStage("synthesize", time.Since(stageStart).Seconds())
	}()

	tctx, cancel := withTimeout(ctx, o.timeouts.Synthesize)
	defer cancel()

	audioBytes, err := o.engines.Synthesizer.Synthesize(tctx, summary)
	if err != nil {
		o.metrics.RecordEngineError("tts", o.engines.Synthesizer.Provider())
		logger.Error().Err(err).Msg("Speech synthesis failed")
		return "", stageErr(FailureSynthesis, "synthesize", err)
	}

	if err := os.MkdirAll(o.outputDir, 0o755); err != nil {
		return "", stageErr(FailureSynthesis, "synthesize", err)
	}
	filename := fmt.Sprintf("summary_%s.mp3", runId)
	if err := os.WriteFile(filepath.Join(o.outputDir, filename), audioBytes, 0o644); err != nil {
		return "", stageErr(FailureSynthesis, "synthesize", err)
	}
	return filename, nil
}

// publishCompleted emits the run-completed event. Publish errors are
// logged and counted, never fatal: the result is already durable.
func (o *Orchestrator) publishCompleted(ctx context.Context, result *models.PipelineResult, auditPath string) {
	if o.publisher == nil {
		return
	}

	counts := make(map[string]int, len(result.Redactions))
	for _, rec := range result.Redactions {
		counts[rec.Label]++
	}

	ev := models.RunCompleted{
		EventType:        "pipeline.run.completed",
		RunID:            result.RunID,
		InputName:        result.InputName,
		Timestamp:        result.CompletedAt,
		TrustScore:       result.TrustScore,
		TrustLevel:       result.Trust.Level,
		RedactionCounts:  counts,
		SummarySkipped:   result.SummarySkipped,
		SummaryAudioFile: result.SummaryAudioFile,
		AuditLogFile:     auditPath,
	}
	if err := o.publisher.PublishRunCompleted(ctx, result.RunID, ev); err != nil {
		lg := logging.WithRun(result.RunID)
		lg.Error().Err(err).Msg("Failed to publish run-completed event")
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
