package pipeline

import (
	"log/slog"

	"github.com/lamim/clipwright/pkg/models"
)

// Reporter is a sink of discrete, ordered status events emitted synchronously
// as the controller transitions states. It performs no buffering or filtering
// and has no effect on control flow.
type Reporter interface {
	PhaseStarted(phase models.Phase)
	PhaseSucceeded(phase models.Phase)
	PhaseFailed(phase models.Phase, err error)
}

// NopReporter discards all status events
type NopReporter struct{}

func (NopReporter) PhaseStarted(models.Phase)       {}
func (NopReporter) PhaseSucceeded(models.Phase)     {}
func (NopReporter) PhaseFailed(models.Phase, error) {}

// SlogReporter logs status events through a structured logger
type SlogReporter struct {
	logger *slog.Logger
}

// NewSlogReporter creates a reporter backed by the given logger
func NewSlogReporter(logger *slog.Logger) *SlogReporter {
	return &SlogReporter{logger: logger.With("component", "progress")}
}

func (r *SlogReporter) PhaseStarted(phase models.Phase) {
	r.logger.Info("Phase started", "phase", phase)
}

func (r *SlogReporter) PhaseSucceeded(phase models.Phase) {
	r.logger.Info("Phase succeeded", "phase", phase)
}

func (r *SlogReporter) PhaseFailed(phase models.Phase, err error) {
	r.logger.Error("Phase failed", "phase", phase, "error", err)
}
