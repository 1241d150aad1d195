// Package google provides a Google Cloud Speech-to-Text adapter.
package google

import (
	"context"
	"fmt"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"audio-privacy-pipeline/internal/models"
	"audio-privacy-pipeline/internal/service/stt"
)

// Config holds recognition parameters.
type Config struct {
	LanguageCode string
	SampleRateHz int
	Encoding     string // LINEAR16, MP3, FLAC
}

// Adapter implements stt.Adapter using Google Cloud Speech-to-Text
// synchronous recognition with word-level confidence enabled.
type Adapter struct {
	client *speech.Client
	cfg    Config
}

// New creates a new Google STT adapter.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
func New(ctx context.Context, cfg Config) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("google stt: create client: %w", err)
	}
	return &Adapter{client: c, cfg: cfg}, nil
}

// Provider implements stt.Adapter.
func (a *Adapter) Provider() string { return "google" }

// Transcribe runs synchronous recognition over the audio bytes and maps
// the top alternative into an stt.Result with per-word confidences.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte) (*stt.Result, error) {
	resp, err := a.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   encodingFor(a.cfg.Encoding),
			SampleRateHertz:            int32(a.cfg.SampleRateHz),
			LanguageCode:               a.cfg.LanguageCode,
			EnableAutomaticPunctuation: true,
			EnableWordConfidence:       true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("google stt: recognize: %w", err)
	}

	if len(resp.Results) == 0 || len(resp.Results[0].Alternatives) == 0 {
		// Empty result is a valid engine response; the orchestrator
		// decides whether it is fatal.
		return &stt.Result{}, nil
	}

	result := &stt.Result{}
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		alt := r.Alternatives[0]
		if result.Text != "" {
			result.Text += " "
		}
		result.Text += alt.Transcript

		if !result.HasConfidence {
			result.Confidence = float64(alt.Confidence)
			result.HasConfidence = true
		}
		for _, w := range alt.Words {
			result.Words = append(result.Words, models.Word{
				Text:          w.Word,
				Confidence:    float64(w.Confidence),
				HasConfidence: true,
			})
		}
	}
	return result, nil
}

// Close releases the underlying client.
func (a *Adapter) Close() error {
	return a.client.Close()
}

func encodingFor(name string) speechpb.RecognitionConfig_AudioEncoding {
	switch name {
	case "MP3":
		return speechpb.RecognitionConfig_MP3
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC
	default:
		return speechpb.RecognitionConfig_LINEAR16
	}
}
