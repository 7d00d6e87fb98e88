// Package render drives batch rendering: it walks the sweep, builds a
// MIDI sequence per job, asks the loaded plugin for audio and writes one
// WAV file per job. The first failure aborts the run.
package render

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gitlab.com/gomidi/midi/v2"

	"github.com/MikePehel/vst-param-cascade/pkg/host"
	"github.com/MikePehel/vst-param-cascade/pkg/sweep"
)

const (
	midiChannel  = 0
	noteVelocity = 100
)

// Renderer owns one loaded plugin instance and runs batch sweeps on it.
// It is single-threaded: each render and each file write blocks until
// done, which makes the on-disk write order match the sweep order.
type Renderer struct {
	backend host.Host
	plugin  host.Plugin
	logger  *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger routes the renderer's logging through l.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// New creates a Renderer using backend to load plugins.
func New(backend host.Host, opts ...Option) *Renderer {
	r := &Renderer{
		backend: backend,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load opens the plugin at path. A previously loaded instance is closed
// and replaced only on success.
func (r *Renderer) Load(path string) error {
	p, err := r.backend.Load(path)
	if err != nil {
		r.logger.Error("failed to load plugin", "path", path, "error", err)
		return &StageError{Stage: StageLoad, Err: err}
	}
	if r.plugin != nil {
		_ = r.plugin.Close()
	}
	r.plugin = p
	r.logger.Info("loaded plugin", "path", path)
	return nil
}

// Loaded reports whether a plugin instance is ready.
func (r *Renderer) Loaded() bool {
	return r.plugin != nil
}

// ShowEditor opens the loaded plugin's editor.
func (r *Renderer) ShowEditor() error {
	if r.plugin == nil {
		return ErrNotLoaded
	}
	return r.plugin.ShowEditor()
}

// Close releases the loaded plugin, if any.
func (r *Renderer) Close() error {
	if r.plugin == nil {
		return nil
	}
	err := r.plugin.Close()
	r.plugin = nil
	return err
}

// Run renders one file per sweep job into cfg.OutputDir, in sweep order.
// Any failure aborts immediately; files already written stay on disk.
func (r *Renderer) Run(cfg sweep.Config, mappings []sweep.CCMapping, values []int) error {
	if r.plugin == nil {
		return ErrNotLoaded
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := sweep.ValidateMappings(mappings, values); err != nil {
		return fmt.Errorf("invalid CC setup: %w", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		r.logger.Error("failed to create output directory", "dir", cfg.OutputDir, "error", err)
		return &StageError{Stage: StageSave, Err: err}
	}

	s := sweep.New(cfg.NoteMin, cfg.NoteMax, mappings, values)
	r.logger.Info("starting automation run",
		"jobs", s.Len(),
		"sampleRate", cfg.SampleRate,
		"duration", cfg.Duration,
		"outputDir", cfg.OutputDir)

	for {
		job, ok := s.Next()
		if !ok {
			break
		}
		if err := r.renderJob(cfg, job); err != nil {
			return err
		}
	}

	r.logger.Info("automation run completed", "jobs", s.Len())
	return nil
}

// renderJob renders and persists a single job.
func (r *Renderer) renderJob(cfg sweep.Config, job sweep.Job) error {
	events := []host.Event{
		{Time: 0, Message: midi.ControlChange(midiChannel, uint8(job.CCNumber), uint8(job.CCValue))},
		{Time: 0, Message: midi.NoteOn(midiChannel, uint8(job.Note), noteVelocity)},
		{Time: cfg.Duration, Message: midi.NoteOff(midiChannel, uint8(job.Note))},
	}

	waveform, err := r.plugin.Render(events, cfg.Duration, cfg.SampleRate)
	if err != nil {
		r.logger.Error("render failed",
			"note", job.Note, "cc", job.CCNumber, "value", job.CCValue, "error", err)
		return &StageError{Stage: StageRender, Err: err}
	}

	path := filepath.Join(cfg.OutputDir, job.Filename())
	if err := writeWAV(path, waveform, cfg.SampleRate); err != nil {
		r.logger.Error("failed to save audio file", "path", path, "error", err)
		return &StageError{Stage: StageSave, Err: err}
	}

	r.logger.Debug("saved audio file", "path", path)
	return nil
}
