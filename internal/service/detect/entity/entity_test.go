package entity

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"audio-privacy-pipeline/internal/models"
)

func TestDetect_FiltersToPIILabels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req detectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		json.NewEncoder(w).Encode(detectResponse{Entities: []detectedEntity{
			{Start: 0, End: 4, Label: "PERSON"},
			{Start: 10, End: 15, Label: "CARDINAL"}, // not PII
			{Start: 20, End: 26, Label: "ORG"},
		}})
	}))
	defer srv.Close()

	d := New(srv.URL, nil, 5*time.Second)

	spans, err := d.Detect(context.Background(), "John owes 12000 to AcmeCo")
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("expected 2 PII spans, got %v", spans)
	}
	for _, sp := range spans {
		if sp.Source != models.SourceEntity {
			t.Errorf("source = %s, want ENTITY", sp.Source)
		}
	}
	if spans[0].Label != "PERSON" || spans[1].Label != "ORG" {
		t.Errorf("unexpected labels: %v", spans)
	}
}

func TestDetect_ServiceErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := New(srv.URL, nil, 5*time.Second)

	if _, err := d.Detect(context.Background(), "anything"); err == nil {
		t.Fatal("expected error from failing NER service")
	}
}

func TestDetect_RespectsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server's background read can observe the
		// client disconnect and cancel the request context.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	d := New(srv.URL, nil, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := d.Detect(ctx, "anything"); err == nil {
		t.Fatal("expected timeout error")
	}
}
