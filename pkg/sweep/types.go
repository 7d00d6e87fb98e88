// Package sweep enumerates batch render jobs across MIDI notes and CC automation values
package sweep

import (
	"errors"
	"fmt"
)

// MaxMIDIValue is the upper bound for MIDI note numbers, CC numbers and CC values.
const MaxMIDIValue = 127

// Config holds the parameters of one automation run.
// It is built by the caller and never mutated by the enumerator or renderer.
type Config struct {
	SampleRate int     // output sample rate in Hz
	Duration   float64 // note length and render length in seconds
	NoteMin    int     // first MIDI note of the sweep (0-127)
	NoteMax    int     // last MIDI note of the sweep, inclusive (0-127)
	OutputDir  string  // directory receiving one .wav per job
}

// CCMapping pairs a MIDI CC number with the label used in output filenames.
// Mappings are kept in a slice so the sweep order matches insertion order.
type CCMapping struct {
	Number int    // CC number (0-127)
	Label  string // free text, filename component only
}

// Job is one (note, CC, value) coordinate of the sweep. One job maps to
// exactly one output file.
type Job struct {
	Note     int
	CCNumber int
	CCLabel  string
	CCValue  int
}

// Filename returns the deterministic output filename for the job:
// {note name}_cc{number}_{label}_{value}.wav
func (j Job) Filename() string {
	return fmt.Sprintf("%s_cc%d_%s_%d.wav", NoteName(j.Note), j.CCNumber, j.CCLabel, j.CCValue)
}

// Validate checks that the config describes a renderable run.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", c.Duration)
	}
	if c.NoteMin < 0 || c.NoteMin > MaxMIDIValue {
		return fmt.Errorf("note min %d out of MIDI range 0-127", c.NoteMin)
	}
	if c.NoteMax < 0 || c.NoteMax > MaxMIDIValue {
		return fmt.Errorf("note max %d out of MIDI range 0-127", c.NoteMax)
	}
	if c.NoteMax < c.NoteMin {
		return fmt.Errorf("note max %d below note min %d", c.NoteMax, c.NoteMin)
	}
	if c.OutputDir == "" {
		return errors.New("output directory not set")
	}
	return nil
}

// ValidateMappings checks CC numbers and values against the MIDI range.
// Duplicate numbers and values are allowed; later jobs overwrite the files
// of earlier ones with the same coordinates.
func ValidateMappings(mappings []CCMapping, values []int) error {
	for _, m := range mappings {
		if m.Number < 0 || m.Number > MaxMIDIValue {
			return fmt.Errorf("CC number %d out of MIDI range 0-127", m.Number)
		}
	}
	for _, v := range values {
		if v < 0 || v > MaxMIDIValue {
			return fmt.Errorf("CC value %d out of MIDI range 0-127", v)
		}
	}
	return nil
}
