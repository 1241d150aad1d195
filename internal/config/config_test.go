package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"SERVICE_PRINCIPAL", "HTTP_PORT", "METRICS_PORT", "OUTPUT_DIR",
		"STT_PROVIDER", "STT_LANGUAGE_CODE", "STT_SAMPLE_RATE_HZ",
		"STT_AUDIO_ENCODING", "STT_WHISPER_URL", "STT_TIMEOUT",
		"SCORING_HIGH_THRESHOLD", "SCORING_MEDIUM_THRESHOLD",
		"REDACTION_OVERLAP_POLICY",
		"DETECT_ENTITY_PROVIDER", "DETECT_NER_URL", "DETECT_TIMEOUT",
		"SUMMARIZER_PROVIDER", "SUMMARIZER_MODEL", "SUMMARIZER_MIN_WORDS",
		"SUMMARIZER_MIN_TOKENS", "SUMMARIZER_MAX_TOKENS", "SUMMARIZER_TIMEOUT",
		"TTS_PROVIDER", "TTS_LANGUAGE_CODE", "TTS_VOICE", "TTS_TIMEOUT",
		"KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_TOPIC_COMPLETED", "KAFKA_PRINCIPAL",
		"LOG_LEVEL", "LOG_FORMAT",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Service.Principal != "svc-audio-privacy" {
		t.Errorf("expected default principal 'svc-audio-privacy', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "8080" {
		t.Errorf("expected default HTTP port '8080', got %s", cfg.Service.HTTPPort)
	}
	if cfg.Service.OutputDir != "outputs" {
		t.Errorf("expected default output dir 'outputs', got %s", cfg.Service.OutputDir)
	}

	if cfg.STT.Provider != "mock" {
		t.Errorf("expected default STT provider 'mock', got %s", cfg.STT.Provider)
	}
	if cfg.STT.LanguageCode != "en-US" {
		t.Errorf("expected default language 'en-US', got %s", cfg.STT.LanguageCode)
	}
	if cfg.STT.SampleRateHz != 16000 {
		t.Errorf("expected default sample rate 16000, got %d", cfg.STT.SampleRateHz)
	}
	if cfg.STT.Timeout != 60*time.Second {
		t.Errorf("expected default STT timeout 60s, got %v", cfg.STT.Timeout)
	}

	if cfg.Scoring.HighThreshold != 0.85 {
		t.Errorf("expected default high threshold 0.85, got %v", cfg.Scoring.HighThreshold)
	}
	if cfg.Scoring.MediumThreshold != 0.70 {
		t.Errorf("expected default medium threshold 0.70, got %v", cfg.Scoring.MediumThreshold)
	}

	if cfg.Redaction.OverlapPolicy != "prefer-pattern" {
		t.Errorf("expected default overlap policy 'prefer-pattern', got %s", cfg.Redaction.OverlapPolicy)
	}

	if cfg.Summarizer.MinWords != 50 {
		t.Errorf("expected default min words 50, got %d", cfg.Summarizer.MinWords)
	}
	if cfg.Summarizer.MinTokens != 30 || cfg.Summarizer.MaxTokens != 150 {
		t.Errorf("expected default token bounds (30,150), got (%d,%d)",
			cfg.Summarizer.MinTokens, cfg.Summarizer.MaxTokens)
	}

	if cfg.Kafka.Enabled {
		t.Error("expected Kafka disabled by default")
	}
	if cfg.Kafka.TopicCompleted != "pipeline.run.completed" {
		t.Errorf("expected default topic 'pipeline.run.completed', got %s", cfg.Kafka.TopicCompleted)
	}

	if cfg.Observability.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STT_PROVIDER", "whisper")
	t.Setenv("SCORING_MEDIUM_THRESHOLD", "0.65")
	t.Setenv("REDACTION_OVERLAP_POLICY", "prefer-larger")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")
	t.Setenv("STT_TIMEOUT", "90s")

	cfg := Load()

	if cfg.STT.Provider != "whisper" {
		t.Errorf("STT provider = %s, want whisper", cfg.STT.Provider)
	}
	if cfg.Scoring.MediumThreshold != 0.65 {
		t.Errorf("medium threshold = %v, want 0.65", cfg.Scoring.MediumThreshold)
	}
	if cfg.Redaction.OverlapPolicy != "prefer-larger" {
		t.Errorf("overlap policy = %s, want prefer-larger", cfg.Redaction.OverlapPolicy)
	}
	if !cfg.Kafka.Enabled {
		t.Error("Kafka should be enabled")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "broker-2:9092" {
		t.Errorf("brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.STT.Timeout != 90*time.Second {
		t.Errorf("STT timeout = %v, want 90s", cfg.STT.Timeout)
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("STT_SAMPLE_RATE_HZ", "not-a-number")
	t.Setenv("SCORING_HIGH_THRESHOLD", "high")
	t.Setenv("KAFKA_ENABLED", "maybe")
	t.Setenv("STT_TIMEOUT", "soon")

	cfg := Load()

	if cfg.STT.SampleRateHz != 16000 {
		t.Errorf("sample rate = %d, want default 16000", cfg.STT.SampleRateHz)
	}
	if cfg.Scoring.HighThreshold != 0.85 {
		t.Errorf("high threshold = %v, want default 0.85", cfg.Scoring.HighThreshold)
	}
	if cfg.Kafka.Enabled {
		t.Error("malformed bool must fall back to default false")
	}
	if cfg.STT.Timeout != 60*time.Second {
		t.Errorf("timeout = %v, want default 60s", cfg.STT.Timeout)
	}
}
