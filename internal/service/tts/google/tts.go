// Package google provides a Google Cloud Text-to-Speech engine.
package google

import (
	"context"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
)

// Config holds voice selection parameters.
type Config struct {
	LanguageCode string
	Voice        string
}

// DefaultConfig returns the standard en-US neural voice.
func DefaultConfig() Config {
	return Config{
		LanguageCode: "en-US",
		Voice:        "en-US-Neural2-A",
	}
}

// Engine implements tts.Engine using Google Cloud Text-to-Speech.
type Engine struct {
	client *texttospeech.Client
	cfg    Config
}

// New creates a new Google TTS engine.
// Requires GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
func New(ctx context.Context, cfg Config) (*Engine, error) {
	c, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("google tts: create client: %w", err)
	}
	if cfg.LanguageCode == "" {
		cfg = DefaultConfig()
	}
	return &Engine{client: c, cfg: cfg}, nil
}

// Provider implements tts.Engine.
func (e *Engine) Provider() string { return "google" }

// Synthesize renders text to MP3 audio bytes.
func (e *Engine) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := e.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: e.cfg.LanguageCode,
			Name:         e.cfg.Voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("google tts: synthesize: %w", err)
	}
	return resp.AudioContent, nil
}

// Close releases the underlying client.
func (e *Engine) Close() error {
	return e.client.Close()
}
