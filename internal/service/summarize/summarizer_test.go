package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeEngine struct {
	calls   int
	out     string
	err     error
	gotMin  int
	gotMax  int
	gotText string
}

func (f *fakeEngine) Summarize(_ context.Context, text string, minTokens, maxTokens int) (string, error) {
	f.calls++
	f.gotText = text
	f.gotMin = minTokens
	f.gotMax = maxTokens
	return f.out, f.err
}

func TestSummarize_ShortTextNeverCallsEngine(t *testing.T) {
	engine := &fakeEngine{out: "should not appear"}
	s := New(engine, DefaultConfig())

	text := strings.Repeat("word ", 49) // 49 words, under the gate
	summary, skipped, err := s.Summarize(context.Background(), text)

	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if !skipped {
		t.Error("expected skipped=true")
	}
	if summary != TooShortSentinel {
		t.Errorf("summary = %q, want sentinel", summary)
	}
	if engine.calls != 0 {
		t.Errorf("engine called %d times for short text", engine.calls)
	}
}

func TestSummarize_LongTextDelegatesWithBounds(t *testing.T) {
	engine := &fakeEngine{out: "a condensed version"}
	s := New(engine, DefaultConfig())

	text := strings.Repeat("word ", 50) // exactly at the gate
	summary, skipped, err := s.Summarize(context.Background(), text)

	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if skipped {
		t.Error("expected skipped=false")
	}
	if summary != "a condensed version" {
		t.Errorf("summary = %q, engine output must pass through verbatim", summary)
	}
	if engine.calls != 1 {
		t.Errorf("engine calls = %d, want 1", engine.calls)
	}
	if engine.gotMin != DefaultMinTokens || engine.gotMax != DefaultMaxTokens {
		t.Errorf("bounds = (%d,%d), want (%d,%d)",
			engine.gotMin, engine.gotMax, DefaultMinTokens, DefaultMaxTokens)
	}
}

func TestSummarize_EngineErrorPropagates(t *testing.T) {
	wantErr := errors.New("model unavailable")
	s := New(&fakeEngine{err: wantErr}, DefaultConfig())

	_, _, err := s.Summarize(context.Background(), strings.Repeat("word ", 60))
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}
