// Package http provides the service's HTTP API: audio upload in,
// pipeline result JSON out.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"audio-privacy-pipeline/internal/service/pipeline"
)

// maxUploadBytes bounds one audio upload (32 MiB).
const maxUploadBytes = 32 << 20

// Handler serves the pipeline API.
type Handler struct {
	orchestrator *pipeline.Orchestrator
	uploadDir    string
	outputDir    string
}

// NewRouter constructs the HTTP router for the service.
func NewRouter(orchestrator *pipeline.Orchestrator, uploadDir, outputDir string) http.Handler {
	h := &Handler{
		orchestrator: orchestrator,
		uploadDir:    uploadDir,
		outputDir:    outputDir,
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Post("/v1/process", h.processAudio)

	// Generated artifacts (summary audio) are served statically.
	r.Handle("/outputs/*", http.StripPrefix("/outputs/",
		http.FileServer(http.Dir(outputDir))))

	return r
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// processAudio accepts a multipart audio upload, runs the pipeline, and
// returns the result payload. The uploaded file is owned by the run and
// removed on every exit path.
func (h *Handler) processAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing 'file' upload field", "")
		return
	}
	defer file.Close()

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, "upload storage unavailable", "")
		return
	}

	uploadPath := filepath.Join(h.uploadDir, uuid.NewString()+filepath.Ext(header.Filename))
	dst, err := os.Create(uploadPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "upload storage unavailable", "")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(uploadPath)
		writeError(w, http.StatusBadRequest, "failed to read upload", "")
		return
	}
	dst.Close()

	result, err := h.orchestrator.Run(r.Context(), pipeline.Input{
		Name:    header.Filename,
		Path:    uploadPath,
		Cleanup: true,
	})
	if err != nil {
		kind := pipeline.KindOf(err)
		status := http.StatusInternalServerError
		if kind == pipeline.FailureTranscription {
			// The caller can fix this by uploading usable audio.
			status = http.StatusUnprocessableEntity
		}
		log.Error().Err(err).Str("input", header.Filename).Msg("Pipeline run failed")
		writeError(w, status, publicMessage(err, kind), string(kind))
		return
	}

	result.SummaryAudioURL = "/outputs/" + result.SummaryAudioFile

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Error().Err(err).Msg("Failed to encode result payload")
	}
}

func publicMessage(err error, kind pipeline.FailureKind) string {
	if errors.Is(err, pipeline.ErrEmptyTranscript) {
		return "could not transcribe audio: the file may be empty or corrupt"
	}
	switch kind {
	case pipeline.FailureTranscription:
		return "transcription failed"
	case pipeline.FailureDetector:
		return "PII detection failed; no result returned"
	case pipeline.FailureSummarization:
		return "summarization failed"
	case pipeline.FailureSynthesis:
		return "speech synthesis failed"
	default:
		return "internal pipeline error"
	}
}

func writeError(w http.ResponseWriter, status int, msg, kind string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg, Kind: kind})
}
