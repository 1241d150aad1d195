// Package mock provides a mock STT adapter for testing without cloud
// credentials. It cycles through canned utterances with realistic word
// confidences, including PII-bearing text that exercises the redaction
// stages downstream.
package mock

import (
	"context"
	"strings"
	"sync"

	"audio-privacy-pipeline/internal/models"
	"audio-privacy-pipeline/internal/service/stt"
)

// CannedUtterance is one simulated transcription result.
type CannedUtterance struct {
	Text       string
	Confidence float64
	WordConf   float64 // applied uniformly to every word
}

// DefaultUtterances provides sample utterances for simulation.
var DefaultUtterances = []CannedUtterance{
	{
		Text:       "Hi this is John Smith my card number is 4111111111111111 and I need help with my account",
		Confidence: 0.94,
		WordConf:   0.92,
	},
	{
		Text:       "Please call me back at 555-123-4567 before Friday thanks",
		Confidence: 0.91,
		WordConf:   0.90,
	},
	{
		Text:       "I spoke with Sarah from Acme about the invoice last Tuesday and she said the billing department would follow up within two business days which has not happened yet so I am calling again to check on the status of that request and to confirm my updated mailing address on file",
		Confidence: 0.96,
		WordConf:   0.95,
	},
}

// Adapter implements stt.Adapter with canned responses.
type Adapter struct {
	mu     sync.Mutex
	next   int
	closed bool

	// Fixed, when non-nil, is always returned instead of cycling.
	Fixed *CannedUtterance
	// Err, when set, is returned by Transcribe.
	Err error
}

// New creates a new mock STT adapter.
func New() *Adapter {
	return &Adapter{}
}

// Provider implements stt.Adapter.
func (a *Adapter) Provider() string { return "mock" }

// Transcribe returns the next canned utterance regardless of audio content.
func (a *Adapter) Transcribe(_ context.Context, _ []byte) (*stt.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.Err != nil {
		return nil, a.Err
	}

	utt := a.Fixed
	if utt == nil {
		utt = &DefaultUtterances[a.next%len(DefaultUtterances)]
		a.next++
	}

	result := &stt.Result{
		Text:          utt.Text,
		Confidence:    utt.Confidence,
		HasConfidence: true,
	}
	for _, w := range strings.Fields(utt.Text) {
		result.Words = append(result.Words, models.Word{
			Text:          w,
			Confidence:    utt.WordConf,
			HasConfidence: true,
		})
	}
	return result, nil
}

// Close marks the adapter closed.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}
