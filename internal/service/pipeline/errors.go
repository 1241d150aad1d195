package pipeline

import (
	"errors"
	"fmt"
)

// FailureKind tags a fatal pipeline error so callers can distinguish the
// failing stage without string matching.
type FailureKind string

const (
	// FailureTranscription covers engine errors and empty/garbled
	// transcripts. Fatal: every downstream stage depends on having text.
	FailureTranscription FailureKind = "TRANSCRIPTION_FAILURE"
	// FailureDetector covers PII detector errors. Fatal rather than
	// degraded: returning partially redacted text under a success status
	// would silently drop a detector's contribution.
	FailureDetector FailureKind = "DETECTOR_FAILURE"
	// FailureSummarization covers external summarization engine errors.
	// The length-gate skip is NOT a failure and never carries this kind.
	FailureSummarization FailureKind = "SUMMARIZATION_FAILURE"
	// FailureSynthesis covers speech synthesis errors. Fatal: the
	// contract promises an audio artifact.
	FailureSynthesis FailureKind = "SYNTHESIS_FAILURE"
	// FailureAudit covers audit artifact persistence errors.
	FailureAudit FailureKind = "AUDIT_FAILURE"
	// FailureInput covers unreadable input audio.
	FailureInput FailureKind = "INPUT_FAILURE"
)

// ErrEmptyTranscript is the cause recorded when the engine returns a
// result with no usable text.
var ErrEmptyTranscript = errors.New("transcription produced no usable text")

// StageError is a fatal pipeline error attributed to one stage.
type StageError struct {
	Kind  FailureKind
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s at stage %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(kind FailureKind, stage string, err error) *StageError {
	return &StageError{Kind: kind, Stage: stage, Err: err}
}

// KindOf extracts the failure kind from an error chain, or "" when the
// error is not a pipeline StageError.
func KindOf(err error) FailureKind {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
