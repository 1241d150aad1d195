// Package app wires configuration into a runnable application: engine
// registry, core services, publisher, and orchestrator.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	apihttp "audio-privacy-pipeline/internal/api/http"
	"audio-privacy-pipeline/internal/audit"
	"audio-privacy-pipeline/internal/config"
	"audio-privacy-pipeline/internal/events"
	"audio-privacy-pipeline/internal/observability/logging"
	"audio-privacy-pipeline/internal/service/detect"
	detectentity "audio-privacy-pipeline/internal/service/detect/entity"
	detectmock "audio-privacy-pipeline/internal/service/detect/mock"
	"audio-privacy-pipeline/internal/service/detect/pattern"
	"audio-privacy-pipeline/internal/service/pipeline"
	"audio-privacy-pipeline/internal/service/redact"
	"audio-privacy-pipeline/internal/service/scoring"
	sttgoogle "audio-privacy-pipeline/internal/service/stt/google"
	sttmock "audio-privacy-pipeline/internal/service/stt/mock"
	sttwhisper "audio-privacy-pipeline/internal/service/stt/whisper"
	"audio-privacy-pipeline/internal/service/summarize"
	sumopenai "audio-privacy-pipeline/internal/service/summarize/openai"
	summock "audio-privacy-pipeline/internal/service/summarize/mock"
	ttsgoogle "audio-privacy-pipeline/internal/service/tts/google"
	ttsmock "audio-privacy-pipeline/internal/service/tts/mock"
)

// Application holds process-wide state for the service.
type Application struct {
	StartupTime  time.Time
	Logger       zerolog.Logger
	Cfg          *config.Config
	Orchestrator *pipeline.Orchestrator
	Publisher    *events.Publisher

	engines pipeline.Engines
}

// New constructs the application: engines are created once here and
// passed by reference into the orchestrator.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	logging.Init(logging.Config{
		Level:      cfg.Observability.LogLevel,
		Format:     cfg.Observability.LogFormat,
		TimeFormat: time.RFC3339,
	})
	logger := logging.WithComponent("application")

	engines, err := buildEngines(ctx, cfg)
	if err != nil {
		return nil, err
	}

	publisher := events.New(&events.Config{
		Enabled:   cfg.Kafka.Enabled,
		Brokers:   cfg.Kafka.Brokers,
		Topic:     cfg.Kafka.TopicCompleted,
		Principal: cfg.Kafka.Principal,
	})

	orchestrator := pipeline.New(
		engines,
		scoring.New(scoring.Config{
			HighThreshold:   cfg.Scoring.HighThreshold,
			MediumThreshold: cfg.Scoring.MediumThreshold,
		}),
		redact.New(redact.OverlapPolicy(cfg.Redaction.OverlapPolicy)),
		summarize.New(engines.Summarizer, summarize.Config{
			MinWords:  cfg.Summarizer.MinWords,
			MinTokens: cfg.Summarizer.MinTokens,
			MaxTokens: cfg.Summarizer.MaxTokens,
		}),
		audit.New(cfg.Service.OutputDir),
		publisher,
		pipeline.Timeouts{
			Transcribe: cfg.STT.Timeout,
			Detect:     cfg.Detect.Timeout,
			Summarize:  cfg.Summarizer.Timeout,
			Synthesize: cfg.TTS.Timeout,
		},
		cfg.Service.OutputDir,
	)

	logger.Info().
		Str("sttProvider", cfg.STT.Provider).
		Str("entityProvider", cfg.Detect.EntityProvider).
		Str("summarizerProvider", cfg.Summarizer.Provider).
		Str("ttsProvider", cfg.TTS.Provider).
		Bool("kafkaEnabled", cfg.Kafka.Enabled).
		Msg("Application wired")

	return &Application{
		Cfg:          cfg,
		Logger:       logger,
		Orchestrator: orchestrator,
		Publisher:    publisher,
		engines:      engines,
	}, nil
}

// Router returns the service's HTTP API handler.
func (a *Application) Router() http.Handler {
	return apihttp.NewRouter(a.Orchestrator, "uploads", a.Cfg.Service.OutputDir)
}

// Start performs startup work before serving traffic.
func (a *Application) Start() error {
	a.StartupTime = time.Now().UTC()
	a.Logger.Info().
		Time("startupTime", a.StartupTime).
		Msg("Audio privacy pipeline starting")
	return nil
}

// Shutdown performs a best-effort cleanup before process exit.
func (a *Application) Shutdown() {
	a.Logger.Info().Msg("Audio privacy pipeline shutting down")
	if err := a.Publisher.Close(); err != nil {
		a.Logger.Error().Err(err).Msg("Error closing publisher")
	}
	if err := a.engines.Transcriber.Close(); err != nil {
		a.Logger.Error().Err(err).Msg("Error closing transcriber")
	}
	if err := a.engines.Synthesizer.Close(); err != nil {
		a.Logger.Error().Err(err).Msg("Error closing synthesizer")
	}
}

// buildEngines constructs the external engine registry from provider
// selections in the configuration.
func buildEngines(ctx context.Context, cfg *config.Config) (pipeline.Engines, error) {
	var engines pipeline.Engines

	switch cfg.STT.Provider {
	case "google":
		adapter, err := sttgoogle.New(ctx, sttgoogle.Config{
			LanguageCode: cfg.STT.LanguageCode,
			SampleRateHz: cfg.STT.SampleRateHz,
			Encoding:     cfg.STT.Encoding,
		})
		if err != nil {
			return engines, fmt.Errorf("build STT engine: %w", err)
		}
		engines.Transcriber = adapter
	case "whisper":
		engines.Transcriber = sttwhisper.New(cfg.STT.WhisperURL, cfg.STT.Timeout)
	default:
		engines.Transcriber = sttmock.New()
	}

	engines.Detectors = []detect.Detector{pattern.New(nil)}
	switch cfg.Detect.EntityProvider {
	case "remote":
		engines.Detectors = append(engines.Detectors,
			detectentity.New(cfg.Detect.NERServiceURL, nil, cfg.Detect.Timeout))
	default:
		engines.Detectors = append(engines.Detectors, detectmock.New())
	}

	switch cfg.Summarizer.Provider {
	case "openai":
		engine, err := sumopenai.New(cfg.Summarizer.APIKey, cfg.Summarizer.Model, cfg.Summarizer.Timeout)
		if err != nil {
			return engines, fmt.Errorf("build summarization engine: %w", err)
		}
		engines.Summarizer = engine
	default:
		engines.Summarizer = summock.New()
	}

	switch cfg.TTS.Provider {
	case "google":
		engine, err := ttsgoogle.New(ctx, ttsgoogle.Config{
			LanguageCode: cfg.TTS.LanguageCode,
			Voice:        cfg.TTS.Voice,
		})
		if err != nil {
			return engines, fmt.Errorf("build TTS engine: %w", err)
		}
		engines.Synthesizer = engine
	default:
		engines.Synthesizer = ttsmock.New()
	}

	return engines, nil
}
