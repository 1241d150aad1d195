// Package whisper provides an STT adapter for a Whisper ASR web service.
//
// Whisper does not report an overall confidence or per-word probabilities;
// it reports per-segment average log-probabilities, which downstream
// scoring converts into the shared confidence shape.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"audio-privacy-pipeline/internal/service/stt"
)

type transcribeResponse struct {
	Text     string `json:"text"`
	Segments []struct {
		Text       string  `json:"text"`
		AvgLogProb float64 `json:"avg_logprob"`
	} `json:"segments"`
}

// Adapter implements stt.Adapter against a Whisper ASR HTTP endpoint.
type Adapter struct {
	url    string
	client *http.Client
}

// New creates a Whisper adapter for the given service URL.
func New(url string, timeout time.Duration) *Adapter {
	return &Adapter{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Provider implements stt.Adapter.
func (a *Adapter) Provider() string { return "whisper" }

// Transcribe posts the audio to the ASR service and maps segments with
// their average log-probabilities.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte) (*stt.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(audio))
	if err != nil {
		return nil, fmt.Errorf("whisper: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper: call ASR service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("whisper: ASR service returned %d: %s", resp.StatusCode, payload)
	}

	var out transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("whisper: decode response: %w", err)
	}

	result := &stt.Result{Text: out.Text}
	for _, seg := range out.Segments {
		result.Segments = append(result.Segments, stt.Segment{
			Text:       seg.Text,
			AvgLogProb: seg.AvgLogProb,
		})
	}
	return result, nil
}

// Close implements stt.Adapter. The HTTP client holds no resources that
// outlive requests.
func (a *Adapter) Close() error { return nil }
