// Package transcode turns WAV files and raw PCM bytes into mono sample
// slices ready for pitch detection.
package transcode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/RyanBlaney/sonido-pitch/logging"
)

// ErrInvalidWAV reports input that is not a PCM WAV file
var ErrInvalidWAV = errors.New("invalid WAV file")

// AudioData represents decoded mono audio
type AudioData struct {
	PCM        []float64     `json:"-"` // Mono samples at the source bit depth scale
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // Channel count of the source before downmixing
	BitDepth   int           `json:"bit_depth"`
	Duration   time.Duration `json:"duration"`
}

// DecodeFile opens filename and decodes it with DecodeWAV
func DecodeFile(filename string) (*AudioData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	return DecodeWAV(file)
}

// DecodeWAV reads a whole PCM WAV stream and averages its channels into one
func DecodeWAV(r io.ReadSeeker) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "wav_decoder",
		"function":  "DecodeWAV",
	})

	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not read PCM buffer: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: missing format chunk", ErrInvalidWAV)
	}

	pcm := downmix(buf)
	data := &AudioData{
		PCM:        pcm,
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
		BitDepth:   buf.SourceBitDepth,
		Duration:   time.Duration(float64(len(pcm)) / float64(buf.Format.SampleRate) * float64(time.Second)),
	}

	logger.Debug("decoded WAV", logging.Fields{
		"sample_rate": data.SampleRate,
		"channels":    data.Channels,
		"bit_depth":   data.BitDepth,
		"frames":      len(pcm),
	})
	return data, nil
}

// downmix averages interleaved channels. A trailing partial frame is dropped.
func downmix(buf *audio.IntBuffer) []float64 {
	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels
	pcm := make([]float64, frames)

	for i := range pcm {
		sum := 0
		for _, v := range buf.Data[i*channels : (i+1)*channels] {
			sum += v
		}
		pcm[i] = float64(sum) / float64(channels)
	}
	return pcm
}

// DecodePCM16 converts little-endian signed 16-bit samples. A trailing odd
// byte is ignored.
func DecodePCM16(data []byte) []float64 {
	samples := make([]float64, len(data)/2)
	for i := range samples {
		samples[i] = float64(int16(binary.LittleEndian.Uint16(data[i*2:])))
	}
	return samples
}
