package render

import (
	"errors"
	"fmt"
)

// ErrNotLoaded is returned when a run or editor request arrives before a
// plugin has been loaded successfully.
var ErrNotLoaded = errors.New("plugin not loaded")

// Stage identifies where in the pipeline a run failed.
type Stage string

const (
	StageLoad   Stage = "load"   // plugin path invalid or unsupported
	StageRender Stage = "render" // plugin render call failed
	StageSave   Stage = "save"   // output directory or file write failed
)

// StageError wraps a failure with the pipeline stage it occurred in.
// The first StageError aborts the whole run; files written before it are
// left in place.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
