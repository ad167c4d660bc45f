// Package audio converts synthesized PCM into telephony-friendly formats.
package audio

import (
	"errors"
	"fmt"

	"github.com/zaf/g711"
)

const bytesPerSample = 2 // 16-bit LE samples

// PCM16ToULaw converts 16-bit little-endian mono PCM to 8-bit mu-law,
// downsampling by decimation when the target rate is lower. sampleRate must be
// an integer multiple of targetRate.
func PCM16ToULaw(pcm []byte, sampleRate, targetRate int) ([]byte, error) {
	if len(pcm)%bytesPerSample != 0 {
		return nil, errors.New("audio: pcm data has odd length")
	}
	if sampleRate <= 0 || targetRate <= 0 {
		return nil, fmt.Errorf("audio: invalid sample rates %d -> %d", sampleRate, targetRate)
	}
	if sampleRate%targetRate != 0 {
		return nil, fmt.Errorf("audio: sample rate %d is not a multiple of %d", sampleRate, targetRate)
	}

	factor := sampleRate / targetRate
	if factor > 1 {
		pcm = decimate(pcm, factor)
	}
	return g711.EncodeUlaw(pcm), nil
}

// decimate keeps every factor-th 16-bit sample of the input.
func decimate(pcm []byte, factor int) []byte {
	samples := len(pcm) / bytesPerSample
	out := make([]byte, 0, (samples/factor+1)*bytesPerSample)
	for i := 0; i < samples; i += factor {
		out = append(out, pcm[i*bytesPerSample], pcm[i*bytesPerSample+1])
	}
	return out
}
