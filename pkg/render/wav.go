package render

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavBitDepth = 16

// writeWAV persists a channels x samples waveform as a 16-bit PCM WAV
// file, creating or overwriting path.
func writeWAV(path string, waveform [][]float32, sampleRate int) error {
	if len(waveform) == 0 || len(waveform[0]) == 0 {
		return errors.New("empty waveform")
	}
	channels := len(waveform)
	samples := len(waveform[0])
	for i, ch := range waveform {
		if len(ch) != samples {
			return fmt.Errorf("channel %d has %d samples, channel 0 has %d", i, len(ch), samples)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(f, sampleRate, wavBitDepth, channels, 1)

	data := make([]int, samples*channels)
	for s := 0; s < samples; s++ {
		for c := 0; c < channels; c++ {
			data[s*channels+c] = pcm16(waveform[c][s])
		}
	}
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: channels,
		},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}

	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		_ = f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// pcm16 converts a float sample in [-1, 1] to a 16-bit PCM value,
// clamping out-of-range input.
func pcm16(v float32) int {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return int(v * 32767)
}
