// Package entity provides a PII detector backed by a remote named-entity
// recognition service.
//
// The service is consumed over HTTP: POST {"text": ...} and receive a list
// of labeled spans. Which entity labels count as PII is decided here, not
// by the remote model.
package entity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"audio-privacy-pipeline/internal/models"
)

// DefaultLabels are the entity categories treated as PII: names, dates,
// geopolitical entities, organizations.
var DefaultLabels = map[string]bool{
	"PERSON": true,
	"DATE":   true,
	"GPE":    true,
	"ORG":    true,
}

type detectRequest struct {
	Text string `json:"text"`
}

type detectedEntity struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
}

type detectResponse struct {
	Entities []detectedEntity `json:"entities"`
}

// Detector implements detect.Detector against a remote NER endpoint.
type Detector struct {
	url    string
	labels map[string]bool
	client *http.Client
}

// New creates an entity detector for the given endpoint URL. Nil labels
// means DefaultLabels.
func New(url string, labels map[string]bool, timeout time.Duration) *Detector {
	if labels == nil {
		labels = DefaultLabels
	}
	return &Detector{
		url:    url,
		labels: labels,
		client: &http.Client{Timeout: timeout},
	}
}

// Source implements detect.Detector.
func (d *Detector) Source() models.SpanSource {
	return models.SourceEntity
}

// Detect sends the text to the NER service and returns spans whose labels
// are in the PII label set.
func (d *Detector) Detect(ctx context.Context, text string) ([]models.PiiSpan, error) {
	body, err := json.Marshal(detectRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("entity: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("entity: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("entity: call NER service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("entity: NER service returned %d: %s", resp.StatusCode, payload)
	}

	var out detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("entity: decode response: %w", err)
	}

	var spans []models.PiiSpan
	for _, e := range out.Entities {
		if !d.labels[e.Label] {
			continue
		}
		spans = append(spans, models.PiiSpan{
			Start:  e.Start,
			End:    e.End,
			Label:  e.Label,
			Source: models.SourceEntity,
		})
	}
	return spans, nil
}
