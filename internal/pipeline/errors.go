package pipeline

import (
	"fmt"

	"github.com/lamim/clipwright/pkg/models"
)

// GenerationError indicates a specific phase's generation call failed. Prior
// phase results stay intact; the caller decides whether to retry the phase,
// navigate back, or reset.
type GenerationError struct {
	Phase models.Phase
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s phase failed: %v", e.Phase, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
