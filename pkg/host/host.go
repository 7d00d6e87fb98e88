// Package host defines the contract between the automation core and a
// plugin-hosting backend. The core only needs to load a plugin by path and
// ask it to render a timed MIDI sequence; everything else (plugin formats,
// editors, parameter models) stays behind this boundary.
package host

import (
	"gitlab.com/gomidi/midi/v2"
)

// Event is a MIDI message scheduled at an offset, in seconds, from the
// start of a render.
type Event struct {
	Time    float64
	Message midi.Message
}

// Host loads plugin instances from filesystem paths.
type Host interface {
	// Load opens the plugin at path and returns a ready instance.
	// It fails if the path does not point at a loadable plugin binary.
	Load(path string) (Plugin, error)
}

// defaultHost is the process-wide backend. The offline fallback applies
// until a native hosting backend registers itself via SetDefault.
var defaultHost Host = NewOfflineHost()

// SetDefault installs h as the process-wide hosting backend.
func SetDefault(h Host) {
	defaultHost = h
}

// Default returns the process-wide hosting backend.
func Default() Host {
	return defaultHost
}

// Plugin is a loaded plugin instance. Render blocks until the full
// waveform is produced; implementations are not required to be safe for
// concurrent use.
type Plugin interface {
	// Render synthesizes duration seconds of audio at sampleRate from the
	// given event sequence. The result is channels x samples.
	Render(events []Event, duration float64, sampleRate int) ([][]float32, error)

	// ShowEditor opens the plugin's own editor window, where supported.
	ShowEditor() error

	// Close releases the instance.
	Close() error
}
