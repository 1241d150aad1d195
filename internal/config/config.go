// Package config loads service configuration from environment variables
// with sensible defaults.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ServiceConfig holds process-level settings.
type ServiceConfig struct {
	Principal   string
	HTTPPort    string
	MetricsPort string
	OutputDir   string
}

// STTConfig holds transcription engine settings.
type STTConfig struct {
	Provider     string // mock, google, whisper
	LanguageCode string
	SampleRateHz int
	Encoding     string
	WhisperURL   string
	Timeout      time.Duration
}

// ScoringConfig holds trust level thresholds. MediumThreshold may be
// lowered (e.g. to 0.65) for engines known to be less calibrated.
type ScoringConfig struct {
	HighThreshold   float64
	MediumThreshold float64
}

// RedactionConfig holds span conflict resolution settings.
type RedactionConfig struct {
	OverlapPolicy string // prefer-pattern, prefer-larger
}

// DetectConfig holds entity detector settings.
type DetectConfig struct {
	EntityProvider string // mock, remote
	NERServiceURL  string
	Timeout        time.Duration
}

// SummarizerConfig holds the length gate and engine settings.
type SummarizerConfig struct {
	Provider  string // mock, openai
	Model     string
	APIKey    string
	MinWords  int
	MinTokens int
	MaxTokens int
	Timeout   time.Duration
}

// TTSConfig holds synthesis engine settings.
type TTSConfig struct {
	Provider     string // mock, google
	LanguageCode string
	Voice        string
	Timeout      time.Duration
}

// KafkaConfig holds completion event publishing settings.
type KafkaConfig struct {
	Enabled        bool
	Brokers        []string
	TopicCompleted string
	Principal      string
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string
}

// Config is the full service configuration.
type Config struct {
	Service       ServiceConfig
	STT           STTConfig
	Scoring       ScoringConfig
	Redaction     RedactionConfig
	Detect        DetectConfig
	Summarizer    SummarizerConfig
	TTS           TTSConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		Service: ServiceConfig{
			Principal:   envOrDefault("SERVICE_PRINCIPAL", "svc-audio-privacy"),
			HTTPPort:    envOrDefault("HTTP_PORT", "8080"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
			OutputDir:   envOrDefault("OUTPUT_DIR", "outputs"),
		},
		STT: STTConfig{
			Provider:     envOrDefault("STT_PROVIDER", "mock"),
			LanguageCode: envOrDefault("STT_LANGUAGE_CODE", "en-US"),
			SampleRateHz: envIntOrDefault("STT_SAMPLE_RATE_HZ", 16000),
			Encoding:     envOrDefault("STT_AUDIO_ENCODING", "LINEAR16"),
			WhisperURL:   envOrDefault("STT_WHISPER_URL", "http://localhost:9000/asr"),
			Timeout:      envDurationOrDefault("STT_TIMEOUT", 60*time.Second),
		},
		Scoring: ScoringConfig{
			HighThreshold:   envFloatOrDefault("SCORING_HIGH_THRESHOLD", 0.85),
			MediumThreshold: envFloatOrDefault("SCORING_MEDIUM_THRESHOLD", 0.70),
		},
		Redaction: RedactionConfig{
			OverlapPolicy: envOrDefault("REDACTION_OVERLAP_POLICY", "prefer-pattern"),
		},
		Detect: DetectConfig{
			EntityProvider: envOrDefault("DETECT_ENTITY_PROVIDER", "mock"),
			NERServiceURL:  envOrDefault("DETECT_NER_URL", "http://localhost:9001/detect"),
			Timeout:        envDurationOrDefault("DETECT_TIMEOUT", 30*time.Second),
		},
		Summarizer: SummarizerConfig{
			Provider:  envOrDefault("SUMMARIZER_PROVIDER", "mock"),
			Model:     envOrDefault("SUMMARIZER_MODEL", "gpt-4o-mini"),
			APIKey:    os.Getenv("OPENAI_API_KEY"),
			MinWords:  envIntOrDefault("SUMMARIZER_MIN_WORDS", 50),
			MinTokens: envIntOrDefault("SUMMARIZER_MIN_TOKENS", 30),
			MaxTokens: envIntOrDefault("SUMMARIZER_MAX_TOKENS", 150),
			Timeout:   envDurationOrDefault("SUMMARIZER_TIMEOUT", 60*time.Second),
		},
		TTS: TTSConfig{
			Provider:     envOrDefault("TTS_PROVIDER", "mock"),
			LanguageCode: envOrDefault("TTS_LANGUAGE_CODE", "en-US"),
			Voice:        envOrDefault("TTS_VOICE", "en-US-Neural2-A"),
			Timeout:      envDurationOrDefault("TTS_TIMEOUT", 60*time.Second),
		},
		Kafka: KafkaConfig{
			Enabled:        envBoolOrDefault("KAFKA_ENABLED", false),
			Brokers:        envListOrDefault("KAFKA_BROKERS", nil),
			TopicCompleted: envOrDefault("KAFKA_TOPIC_COMPLETED", "pipeline.run.completed"),
			Principal:      envOrDefault("KAFKA_PRINCIPAL", "svc-audio-privacy"),
		},
		Observability: ObservabilityConfig{
			LogLevel:  envOrDefault("LOG_LEVEL", "info"),
			LogFormat: envOrDefault("LOG_FORMAT", "json"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloatOrDefault(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBoolOrDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDurationOrDefault(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envListOrDefault(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
