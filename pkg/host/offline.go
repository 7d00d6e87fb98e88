package host

import (
	"fmt"
	"math"
	"os"
)

// OfflineHost is a self-contained fallback backend used when no native
// plugin-hosting library is wired in. It "loads" any existing file and
// renders a deterministic decaying sine for the note in the event
// sequence, with the CC value scaling amplitude. Output is stereo.
//
// It keeps the CLI, TUI and API usable end to end (and testable) without
// a plugin binary that actually synthesizes.
type OfflineHost struct{}

// NewOfflineHost returns the offline backend.
func NewOfflineHost() *OfflineHost {
	return &OfflineHost{}
}

// Load verifies that path exists and returns an offline instance.
func (h *OfflineHost) Load(path string) (Plugin, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot open plugin %s: %w", path, err)
	}
	return &offlinePlugin{path: path}, nil
}

type offlinePlugin struct {
	path string
}

// Render produces a stereo decaying sine at the equal-tempered frequency
// of the first note-on in events. The first control-change value scales
// amplitude so CC sweeps are audible in the output.
func (p *offlinePlugin) Render(events []Event, duration float64, sampleRate int) ([][]float32, error) {
	if duration <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("invalid render request: duration=%g sampleRate=%d", duration, sampleRate)
	}

	note := uint8(69) // default A4 when the sequence carries no note-on
	velocity := uint8(100)
	ccValue := uint8(127)

	var ch, key, vel, ctrl, val uint8
	for _, ev := range events {
		if ev.Message.GetNoteStart(&ch, &key, &vel) {
			note, velocity = key, vel
		}
		if ev.Message.GetControlChange(&ch, &ctrl, &val) {
			ccValue = val
		}
	}

	freq := 440.0 * math.Pow(2, (float64(note)-69)/12)
	amp := (float64(velocity) / 127) * (float64(ccValue) / 127)

	samples := int(duration * float64(sampleRate))
	left := make([]float32, samples)
	right := make([]float32, samples)
	for i := 0; i < samples; i++ {
		t := float64(i) / float64(sampleRate)
		decay := math.Exp(-3 * t / duration)
		v := float32(amp * decay * math.Sin(2*math.Pi*freq*t))
		left[i] = v
		right[i] = v
	}

	return [][]float32{left, right}, nil
}

// ShowEditor is a no-op; the offline backend has no UI.
func (p *offlinePlugin) ShowEditor() error {
	return nil
}

// Close is a no-op.
func (p *offlinePlugin) Close() error {
	return nil
}
