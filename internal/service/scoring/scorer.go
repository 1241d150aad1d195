// Package scoring fuses heterogeneous transcription confidence signals
// into one normalized score and a discrete trust level.
//
// The three inputs are incommensurate: the engine's self-reported
// confidence, the recording's signal-to-noise ratio, and a perplexity-like
// term derived from per-token probabilities. Each is normalized into [0,1]
// before the weighted combination.
package scoring

import (
	"math"

	"audio-privacy-pipeline/internal/models"
)

// Fusion weights when an API confidence is available.
const (
	weightAPI        = 0.5
	weightSNR        = 0.3
	weightPerplexity = 0.2
)

// SNR normalization anchors: 10 dB is unusable, 30 dB is clean.
const (
	snrFloorDb = 10.0
	snrSpanDb  = 20.0
)

// Signals is the per-run bundle of raw confidence inputs.
// Exactly one of WordConfidences / SegmentAvgLogProbs is expected to be
// populated, matching which shape the transcription engine reports.
type Signals struct {
	// APIConfidence is the engine's overall confidence, when reported.
	APIConfidence    float64
	HasAPIConfidence bool

	// SNRDb is the recording signal-to-noise ratio in decibels.
	// May be +Inf for zero-variance (silent) input; it is clamped here.
	SNRDb float64

	// WordConfidences are per-word probabilities in [0,1].
	WordConfidences []float64

	// SegmentAvgLogProbs are per-segment average log-probabilities,
	// used when the engine does not report per-word confidences.
	SegmentAvgLogProbs []float64
}

// Config holds the trust level thresholds.
type Config struct {
	// HighThreshold is the exclusive lower bound for HIGH trust.
	HighThreshold float64
	// MediumThreshold is the exclusive lower bound for MEDIUM trust.
	// May be lowered (e.g. to 0.65) for engines known to be less calibrated.
	MediumThreshold float64
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		HighThreshold:   0.85,
		MediumThreshold: 0.70,
	}
}

// Scorer computes trust assessments. Stateless and safe for concurrent use.
type Scorer struct {
	cfg Config
}

// New creates a Scorer with the given thresholds.
func New(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score fuses the signal bundle into a TrustAssessment. It never fails:
// degenerate inputs (silence, zero variance, zero average confidence)
// resolve to defined extremes instead of propagating domain errors.
func (s *Scorer) Score(sig Signals) models.TrustAssessment {
	snrNorm := normalizeSNR(sig.SNRDb)
	perplexityNorm := normalizePerplexity(avgConfidence(sig))

	var combined float64
	if sig.HasAPIConfidence {
		combined = weightAPI*sig.APIConfidence + weightSNR*snrNorm + weightPerplexity*perplexityNorm
	} else {
		// Redistribute the API weight proportionally across the two
		// remaining terms so the weights still sum to 1.
		scale := 1.0 / (weightSNR + weightPerplexity)
		combined = weightSNR*scale*snrNorm + weightPerplexity*scale*perplexityNorm
	}

	return models.TrustAssessment{
		Score: combined,
		Level: s.level(combined),
	}
}

func (s *Scorer) level(score float64) models.TrustLevel {
	switch {
	case score > s.cfg.HighThreshold:
		return models.TrustHigh
	case score > s.cfg.MediumThreshold:
		return models.TrustMedium
	default:
		return models.TrustLow
	}
}

// normalizeSNR maps dB to [0,1] linearly between the floor and ceiling
// anchors. Clamping also absorbs the +Inf SNR of zero-variance input.
func normalizeSNR(snrDb float64) float64 {
	return clamp01((snrDb - snrFloorDb) / snrSpanDb)
}

// normalizePerplexity derives the perplexity term from the mean token
// confidence. Zero confidence yields infinite perplexity, which maps
// to a zero contribution rather than poisoning the combination.
func normalizePerplexity(avgConf float64) float64 {
	if avgConf <= 0 {
		return 0
	}
	perplexity := 1.0 / avgConf
	return math.Max(1-(perplexity-1), 0)
}

// avgConfidence returns the mean per-token confidence, substituting
// exp(mean(segment log-probs)) when only segment probabilities are
// available. This keeps the fusion formula source-agnostic.
func avgConfidence(sig Signals) float64 {
	if len(sig.WordConfidences) > 0 {
		return mean(sig.WordConfidences)
	}
	if len(sig.SegmentAvgLogProbs) > 0 {
		return math.Exp(mean(sig.SegmentAvgLogProbs))
	}
	return 0
}

func mean(vs []float64) float64 {
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
