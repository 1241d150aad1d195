package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"audio-privacy-pipeline/internal/audit"
	"audio-privacy-pipeline/internal/models"
	"audio-privacy-pipeline/internal/service/detect"
	detectmock "audio-privacy-pipeline/internal/service/detect/mock"
	"audio-privacy-pipeline/internal/service/detect/pattern"
	"audio-privacy-pipeline/internal/service/pipeline"
	"audio-privacy-pipeline/internal/service/redact"
	"audio-privacy-pipeline/internal/service/scoring"
	sttmock "audio-privacy-pipeline/internal/service/stt/mock"
	"audio-privacy-pipeline/internal/service/summarize"
	summock "audio-privacy-pipeline/internal/service/summarize/mock"
	ttsmock "audio-privacy-pipeline/internal/service/tts/mock"
)

func testRouter(t *testing.T, transcriber *sttmock.Adapter) http.Handler {
	t.Helper()
	outputDir := t.TempDir()
	engines := pipeline.Engines{
		Transcriber: transcriber,
		Detectors:   []detect.Detector{pattern.New(nil), detectmock.New()},
		Summarizer:  summock.New(),
		Synthesizer: ttsmock.New(),
	}
	o := pipeline.New(
		engines,
		scoring.New(scoring.DefaultConfig()),
		redact.New(redact.PolicyPreferPattern),
		summarize.New(engines.Summarizer, summarize.DefaultConfig()),
		audit.New(outputDir),
		nil,
		pipeline.Timeouts{Transcribe: 10 * time.Second, Detect: 10 * time.Second, Summarize: 10 * time.Second, Synthesize: 10 * time.Second},
		outputDir,
	)
	return NewRouter(o, t.TempDir(), outputDir)
}

func uploadRequest(t *testing.T, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "call.pcm")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(body); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/process", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestProcessAudio_Success(t *testing.T) {
	transcriber := sttmock.New()
	transcriber.Fixed = &sttmock.CannedUtterance{
		Text:       "This is John at 555-123-4567",
		Confidence: 0.95,
		WordConf:   0.92,
	}

	router := testRouter(t, transcriber)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, []byte{0x00, 0x20, 0x00, 0xE0}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result models.PipelineResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(result.RedactedTranscript, "[REDACTED_PHONE]") {
		t.Errorf("redacted = %q", result.RedactedTranscript)
	}
	if !strings.HasPrefix(result.SummaryAudioURL, "/outputs/") {
		t.Errorf("audio URL = %q", result.SummaryAudioURL)
	}
	if result.TrustScore == "" {
		t.Error("payload must carry the display score")
	}
}

func TestProcessAudio_EmptyTranscriptIsUnprocessable(t *testing.T) {
	transcriber := sttmock.New()
	transcriber.Fixed = &sttmock.CannedUtterance{Text: ""}

	router := testRouter(t, transcriber)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, []byte{0x00, 0x20}))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Kind != string(pipeline.FailureTranscription) {
		t.Errorf("kind = %q", resp.Kind)
	}
}

func TestProcessAudio_MissingFileField(t *testing.T) {
	router := testRouter(t, sttmock.New())

	req := httptest.NewRequest(http.MethodPost, "/v1/process", strings.NewReader("no file"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xxx")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := testRouter(t, sttmock.New())

	for _, path := range []string{"/v1/liveness", "/v1/readiness"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}
