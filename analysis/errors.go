package analysis

import (
	"errors"
	"fmt"
)

// Stage names reported by PipelineError.
const (
	StageInput      = "input"
	StageExtract    = "extract"
	StageTranscribe = "transcribe"
	StageScore      = "score"
	StageMap        = "map"
	StagePersist    = "persist"
)

// ErrTimeout is the cause carried by a PipelineError when the cloud job
// outlives the configured poll deadline.
var ErrTimeout = errors.New("timeout")

// PipelineError wraps a stage failure with the stage that produced it. The
// underlying cause is never modified, only annotated.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *PipelineError) Unwrap() error { return e.Err }

func stageErr(stage string, err error) *PipelineError {
	return &PipelineError{Stage: stage, Err: err}
}

// MappingError reports a sentiment label the cloud adapter does not know.
// Unknown labels abort the run instead of defaulting so API contract drift
// surfaces immediately.
type MappingError struct {
	Label string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("unknown sentiment label %q", e.Label)
}
