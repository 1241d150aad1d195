// Command runpipeline processes a single audio file through the full
// privacy pipeline from the command line, without the HTTP surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"audio-privacy-pipeline/internal/app"
	"audio-privacy-pipeline/internal/config"
	"audio-privacy-pipeline/internal/service/pipeline"
)

func main() {
	audioFile := flag.String("audio", "", "Path to the input audio file")
	outputDir := flag.String("output", "", "Output directory (overrides OUTPUT_DIR)")
	flag.Parse()

	if *audioFile == "" {
		fmt.Fprintln(os.Stderr, "usage: runpipeline -audio <file> [-output <dir>]")
		os.Exit(2)
	}

	cfg := config.Load()
	if *outputDir != "" {
		cfg.Service.OutputDir = *outputDir
	}

	ctx := context.Background()
	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to construct application")
	}
	defer application.Shutdown()

	result, err := application.Orchestrator.Run(ctx, pipeline.Input{
		Name: filepath.Base(*audioFile),
		Path: *audioFile,
	})
	if err != nil {
		log.Fatal().
			Err(err).
			Str("kind", string(pipeline.KindOf(err))).
			Msg("Pipeline run failed")
	}

	fmt.Printf("Run ID:          %s\n", result.RunID)
	fmt.Printf("Trust:           %s (%s)\n", result.TrustScore, result.Trust.Level)
	fmt.Printf("Transcript:      %s\n", result.Transcript.Text)
	fmt.Printf("Redacted:        %s\n", result.RedactedTranscript)
	fmt.Printf("Redactions:      %d\n", len(result.Redactions))
	fmt.Printf("Summary:         %s\n", result.Summary)
	fmt.Printf("Summary audio:   %s\n", filepath.Join(cfg.Service.OutputDir, result.SummaryAudioFile))
	fmt.Printf("Audit log:       %s\n", filepath.Join(cfg.Service.OutputDir, "audit_"+result.RunID+".log"))
}
