// Package signal derives acoustic quality signals from raw audio.
//
// The only consumer is the confidence scorer, which needs the recording's
// signal-to-noise ratio. Input is 16-bit little-endian PCM, either bare or
// wrapped in a RIFF/WAV container.
package signal

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrNoSamples is returned when the audio contains no decodable samples.
var ErrNoSamples = errors.New("signal: audio contains no samples")

// SNRDb computes the signal-to-noise ratio in decibels as
// 10*log10(mean(s^2)/var(s)) over normalized samples. Zero-variance input
// (pure DC or silence) yields +Inf; the scorer clamps it, it is not an
// error here.
func SNRDb(audio []byte) (float64, error) {
	samples, err := decodePCM16(audio)
	if err != nil {
		return 0, err
	}

	var sum, sumSq float64
	for _, s := range samples {
		sum += s
		sumSq += s * s
	}
	n := float64(len(samples))
	meanVal := sum / n
	signalPower := sumSq / n
	noisePower := signalPower - meanVal*meanVal // variance

	if noisePower <= 0 {
		return math.Inf(1), nil
	}
	return 10 * math.Log10(signalPower/noisePower), nil
}

// decodePCM16 extracts normalized float samples in [-1,1) from WAV or raw
// PCM bytes.
func decodePCM16(audio []byte) ([]float64, error) {
	data := audio
	if isWAV(audio) {
		chunk, err := wavDataChunk(audio)
		if err != nil {
			return nil, err
		}
		data = chunk
	}

	if len(data) < 2 {
		return nil, ErrNoSamples
	}
	// Drop a trailing odd byte rather than failing the whole run.
	data = data[:len(data)&^1]

	samples := make([]float64, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		s := int16(binary.LittleEndian.Uint16(data[i:]))
		samples = append(samples, float64(s)/32768.0)
	}
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	return samples, nil
}

func isWAV(b []byte) bool {
	return len(b) >= 12 && string(b[0:4]) == "RIFF" && string(b[8:12]) == "WAVE"
}

// wavDataChunk walks the RIFF chunk list and returns the payload of the
// "data" chunk.
func wavDataChunk(b []byte) ([]byte, error) {
	off := 12
	for off+8 <= len(b) {
		id := string(b[off : off+4])
		size := int(binary.LittleEndian.Uint32(b[off+4 : off+8]))
		body := off + 8
		if body+size > len(b) {
			size = len(b) - body
		}
		if id == "data" {
			return b[body : body+size], nil
		}
		// Chunks are word-aligned.
		off = body + size + (size & 1)
	}
	return nil, ErrNoSamples
}
