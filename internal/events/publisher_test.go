package events

import (
	"context"
	"testing"
	"time"

	"audio-privacy-pipeline/internal/models"
)

func TestNew_NilConfigDisabled(t *testing.T) {
	p := New(nil)
	if p.enabled {
		t.Error("nil config must produce a disabled publisher")
	}
}

func TestNew_DisabledConfig(t *testing.T) {
	p := New(&Config{
		Enabled:   false,
		Topic:     "pipeline.run.completed",
		Principal: "svc-test",
	})
	if p.enabled {
		t.Error("publisher should be disabled")
	}
	if p.topic != "pipeline.run.completed" {
		t.Errorf("topic = %s", p.topic)
	}
}

func TestNew_EnabledWithoutBrokersFallsBack(t *testing.T) {
	p := New(&Config{Enabled: true, Topic: "t"})
	if p.enabled {
		t.Error("no brokers must fall back to log-only mode")
	}
}

func TestPublishRunCompleted_LogOnlyModeSucceeds(t *testing.T) {
	p := New(&Config{Enabled: false, Topic: "pipeline.run.completed"})

	ev := models.RunCompleted{
		EventType:       "pipeline.run.completed",
		RunID:           "run-1",
		Timestamp:       time.Now().UnixMilli(),
		TrustScore:      "0.91",
		TrustLevel:      models.TrustHigh,
		RedactionCounts: map[string]int{"PHONE": 1, "PERSON": 2},
	}

	if err := p.PublishRunCompleted(context.Background(), ev.RunID, ev); err != nil {
		t.Fatalf("log-only publish should not fail: %v", err)
	}
}

func TestPublishRunCompleted_UnmarshalableEvent(t *testing.T) {
	p := New(&Config{Enabled: false, Topic: "t"})

	// channels cannot be marshaled to JSON
	if err := p.PublishRunCompleted(context.Background(), "run-1", make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestClose_DisabledPublisher(t *testing.T) {
	p := New(nil)
	if err := p.Close(); err != nil {
		t.Fatalf("Close on disabled publisher: %v", err)
	}
}
