package extract

import "fmt"

// Stage identifies where in the pipeline a request failed.
type Stage string

const (
	StageInput  Stage = "input"
	StageRender Stage = "render"
	StageModel  Stage = "model"
	StageParse  Stage = "parse"
	StageSchema Stage = "schema"
)

// StageError tags a failure with its pipeline stage so the HTTP layer can
// report the failing stage to the caller.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
