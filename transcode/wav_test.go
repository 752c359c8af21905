package transcode

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/RyanBlaney/sonido-pitch/algorithms/pitch"
)

// writeStereoSine writes a 16-bit stereo WAV whose right channel is the left one halved
func writeStereoSine(t *testing.T, freq float64, frames, sampleRate int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sine.wav")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create wav: %v", err)
	}
	defer file.Close()

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           make([]int, 2*frames),
		SourceBitDepth: 16,
	}
	for i := range frames {
		v := int(math.Round(16000 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))))
		buf.Data[2*i] = v
		buf.Data[2*i+1] = v / 2
	}

	encoder := wav.NewEncoder(file, sampleRate, 16, 2, 1)
	if err := encoder.Write(buf); err != nil {
		t.Fatalf("failed to write samples: %v", err)
	}
	if err := encoder.Close(); err != nil {
		t.Fatalf("failed to close encoder: %v", err)
	}
	return path
}

func TestDecodeFileRoundTrip(t *testing.T) {
	t.Parallel()
	const frames, sampleRate = 16384, 44100
	path := writeStereoSine(t, 440, frames, sampleRate)

	data, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile returned error: %v", err)
	}
	if data.SampleRate != sampleRate || data.Channels != 2 || data.BitDepth != 16 {
		t.Errorf("format = %d Hz, %d channels, %d bits", data.SampleRate, data.Channels, data.BitDepth)
	}
	if len(data.PCM) != frames {
		t.Fatalf("len(PCM) = %d, want %d", len(data.PCM), frames)
	}
	if want := float64(frames) / sampleRate; math.Abs(data.Duration.Seconds()-want) > 1e-6 {
		t.Errorf("Duration = %v, want %.6fs", data.Duration, want)
	}

	// Sample 10 of the 440 Hz sine: left 9386, right 4693
	if want := (9386.0 + 4693.0) / 2; data.PCM[10] != want {
		t.Errorf("PCM[10] = %v, want %v", data.PCM[10], want)
	}

	freq, err := pitch.NewHannedFFTDetector(frames).DetectPitchInRange(data.PCM, float64(data.SampleRate),
		pitch.FreqRange{Min: pitch.MinFreq, Max: pitch.MaxFreq})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(freq-440) > 0.2 {
		t.Errorf("detected %.3f Hz from decoded WAV, want 440", freq)
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	t.Parallel()
	_, err := DecodeWAV(bytes.NewReader([]byte("this is not a RIFF file, just text padding it out")))
	if !errors.Is(err, ErrInvalidWAV) {
		t.Errorf("error = %v, want ErrInvalidWAV", err)
	}
}

func TestDecodeFileMissing(t *testing.T) {
	t.Parallel()
	if _, err := DecodeFile(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDecodePCM16(t *testing.T) {
	t.Parallel()
	got := DecodePCM16([]byte{0x01, 0x00, 0xff, 0xff, 0x00, 0x80, 0xff, 0x7f, 0x2a})
	want := []float64{1, -1, -32768, 32767}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
	if len(DecodePCM16(nil)) != 0 {
		t.Error("expected no samples for empty input")
	}
}
