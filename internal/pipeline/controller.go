package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lamim/clipwright/internal/config"
	"github.com/lamim/clipwright/internal/metrics"
	"github.com/lamim/clipwright/internal/prompt"
	"github.com/lamim/clipwright/pkg/models"
)

// Generator is the narrow contract the controller consumes from the
// generation service: one call returns one complete text or one error. The
// controller assumes no retries, no timeouts, and no streaming on the other
// side.
type Generator interface {
	Invoke(ctx context.Context, requestText string, cfg config.ModelConfig) (string, error)
	ValidateCredential(ctx context.Context, cfg config.ModelConfig) error
}

// Controller drives the classification → extraction → writing pipeline for a
// single run. It owns exactly one PipelineState; construct one controller per
// run and never share it.
type Controller struct {
	cfg       *config.Config
	gen       Generator
	reporter  Reporter
	collector *metrics.Collector
	logger    *slog.Logger
	state     *models.PipelineState
	stats     models.RunStats

	// credentialOK is set only by a passing ValidateCredential; no phase
	// runs while it is false.
	credentialOK bool
}

// NewController creates a controller for one pipeline run
func NewController(
	cfg *config.Config,
	gen Generator,
	reporter Reporter,
	collector *metrics.Collector,
	logger *slog.Logger,
) *Controller {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Controller{
		cfg:       cfg,
		gen:       gen,
		reporter:  reporter,
		collector: collector,
		logger:    logger.With("component", "pipeline"),
		state:     &models.PipelineState{Stage: models.StageIdle},
	}
}

// State returns the controller's pipeline state
func (c *Controller) State() *models.PipelineState {
	return c.state
}

// Stats returns statistics for the current run
func (c *Controller) Stats() models.RunStats {
	return c.stats
}

// Start attaches the transcript bundle, validates the generation credential,
// and runs the classification phase. A credential failure aborts the run at
// Ready, before Classifying is entered.
func (c *Controller) Start(ctx context.Context, bundle *models.TranscriptBundle) (*models.PipelineState, error) {
	if c.state.Stage != models.StageIdle {
		return c.state, fmt.Errorf("start requires an idle pipeline (current stage: %s)", c.state.Stage)
	}
	if bundle == nil || len(bundle.Segments) == 0 {
		return c.state, fmt.Errorf("start requires a non-empty transcript bundle")
	}

	c.state.RunID = uuid.NewString()
	c.state.Bundle = bundle
	c.state.Stage = models.StageReady
	c.state.PromptsUsed = make(map[models.Phase]string)
	c.stats = models.RunStats{StartTime: time.Now()}

	c.logger.Info("Starting pipeline run",
		"run_id", c.state.RunID,
		"video_id", bundle.VideoID,
		"segments", len(bundle.Segments))

	if err := c.validateCredential(ctx); err != nil {
		return c.state, err
	}

	err := c.runPhase(ctx, models.PhaseClassification)
	return c.state, err
}

// validateCredential checks the generation credential once per run. A run
// that failed the check stays at Ready; every path out of Ready re-checks
// until it passes.
func (c *Controller) validateCredential(ctx context.Context) error {
	if c.credentialOK {
		return nil
	}
	if err := c.gen.ValidateCredential(ctx, c.cfg.Phase(models.PhaseClassification)); err != nil {
		c.logger.Error("Credential validation failed", "error", err)
		return err
	}
	c.credentialOK = true
	return nil
}

// Advance drives the next queued transition: it runs the next phase when the
// run is between phases, settles an in-flight phase whose result is already
// populated, and is a no-op at Completed.
func (c *Controller) Advance(ctx context.Context) (*models.PipelineState, error) {
	switch c.state.Stage {
	case models.StageReady:
		if err := c.validateCredential(ctx); err != nil {
			return c.state, err
		}
		return c.state, c.runPhase(ctx, models.PhaseClassification)
	case models.StageClassified:
		return c.state, c.runPhase(ctx, models.PhaseExtraction)
	case models.StageExtracted:
		return c.state, c.runPhase(ctx, models.PhaseWriting)
	case models.StageClassifying, models.StageExtracting, models.StageWriting:
		// Re-entrant call while a phase is notionally in flight: settle the
		// stage if the result landed, otherwise hold. Never issue a second
		// client call for the same phase.
		c.settleInFlight()
		return c.state, nil
	case models.StageCompleted:
		return c.state, nil
	case models.StageFailed:
		return c.state, fmt.Errorf("run failed at %s phase; retry the phase, navigate back, or reset", c.state.FailedPhase)
	default:
		return c.state, fmt.Errorf("no transcript bundle loaded; call Start first")
	}
}

// RetryPhase clears the given phase's result (and everything downstream, so
// no forward gaps remain) and re-runs it. The preceding phase must have
// succeeded; earlier results are never re-generated.
func (c *Controller) RetryPhase(ctx context.Context, phase models.Phase) (*models.PipelineState, error) {
	if c.state.Stage == models.StageIdle {
		return c.state, fmt.Errorf("no active run")
	}

	if prev, ok := priorPhase(phase); ok {
		if r := *c.state.Result(prev); r == nil || !r.Succeeded {
			return c.state, fmt.Errorf("cannot retry %s: %s has not succeeded", phase, prev)
		}
	}

	c.clearFrom(phase)
	c.state.FailedPhase = ""
	c.state.LastError = ""

	err := c.runPhase(ctx, phase)
	return c.state, err
}

// Back navigates one phase backwards, clearing the newest result. From Failed
// it abandons the failed attempt and settles at the last successful phase.
func (c *Controller) Back() (*models.PipelineState, error) {
	switch c.state.Stage {
	case models.StageCompleted:
		c.state.Article = nil
		delete(c.state.PromptsUsed, models.PhaseWriting)
		c.state.Stage = models.StageExtracted
	case models.StageExtracted:
		c.state.Extraction = nil
		delete(c.state.PromptsUsed, models.PhaseExtraction)
		c.state.Stage = models.StageClassified
	case models.StageClassified:
		c.state.Classification = nil
		delete(c.state.PromptsUsed, models.PhaseClassification)
		c.state.Stage = models.StageReady
	case models.StageFailed:
		c.state.FailedPhase = ""
		c.state.LastError = ""
		switch {
		case c.state.Extraction != nil:
			c.state.Stage = models.StageExtracted
		case c.state.Classification != nil:
			c.state.Stage = models.StageClassified
		default:
			c.state.Stage = models.StageReady
		}
	default:
		return c.state, fmt.Errorf("cannot navigate back from %s", c.state.Stage)
	}
	return c.state, nil
}

// Reset abandons the current run: all phase results are cleared and the
// transcript bundle is discarded.
func (c *Controller) Reset() *models.PipelineState {
	if c.state.RunID != "" {
		c.logger.Info("Pipeline reset", "run_id", c.state.RunID)
	}
	c.state = &models.PipelineState{Stage: models.StageIdle}
	c.stats = models.RunStats{}
	c.credentialOK = false
	return c.state
}

// runPhase executes one phase: assemble the prompt, invoke the generation
// client once, store the result. A populated slot short-circuits without a
// client call; this guards against duplicate external calls from re-entrant
// invocation of the same phase handler.
func (c *Controller) runPhase(ctx context.Context, phase models.Phase) error {
	slot := c.state.Result(phase)
	if *slot != nil && (*slot).Succeeded {
		c.state.Stage = settledStage(phase)
		return nil
	}

	c.state.Stage = runningStage(phase)
	c.reporter.PhaseStarted(phase)
	start := time.Now()

	request, err := c.assemble(phase)
	if err != nil {
		return c.failPhase(phase, start, err)
	}

	c.logger.Debug("Invoking generation client",
		"phase", phase,
		"model", c.cfg.Phase(phase).ModelName,
		"request_chars", len(request))

	text, err := c.gen.Invoke(ctx, request, c.cfg.Phase(phase))
	if err != nil {
		return c.failPhase(phase, start, err)
	}

	*slot = &models.PhaseResult{Phase: phase, Text: text, Succeeded: true}
	c.state.PromptsUsed[phase] = request
	c.state.Stage = settledStage(phase)
	c.state.FailedPhase = ""
	c.state.LastError = ""

	c.stats.PhasesRun++
	c.stats.SuccessCount++
	if c.state.Stage == models.StageCompleted {
		c.stats.EndTime = time.Now()
		c.stats.TotalDuration = c.stats.EndTime.Sub(c.stats.StartTime)
	}

	duration := time.Since(start)
	if c.collector != nil {
		c.collector.RecordPhase(string(phase), duration, true)
		c.collector.IncrementGeneration(string(phase), true)
	}
	c.reporter.PhaseSucceeded(phase)
	c.logger.Info("Phase completed",
		"phase", phase,
		"duration", duration,
		"output_chars", len(text))

	return nil
}

func (c *Controller) failPhase(phase models.Phase, start time.Time, err error) error {
	genErr := &GenerationError{Phase: phase, Err: err}

	// The failed phase's slot stays empty; prior results are retained so the
	// caller can retry just this phase.
	c.state.Stage = models.StageFailed
	c.state.FailedPhase = phase
	c.state.LastError = genErr.Error()

	c.stats.PhasesRun++
	c.stats.FailureCount++
	if c.collector != nil {
		c.collector.RecordPhase(string(phase), time.Since(start), false)
		c.collector.IncrementGeneration(string(phase), false)
	}
	c.reporter.PhaseFailed(phase, genErr)
	c.logger.Error("Phase failed", "phase", phase, "error", err)

	return genErr
}

func (c *Controller) assemble(phase models.Phase) (string, error) {
	in := prompt.Inputs{}
	if c.state.Bundle != nil {
		in.Transcript = c.state.Bundle.FormattedText
	}
	if r := c.state.Classification; r != nil {
		in.Classification = r.Text
	}
	if r := c.state.Extraction; r != nil {
		in.Extraction = r.Text
	}
	return prompt.Assemble(phase, c.cfg.PromptTemplates.Template(phase), in, c.cfg.Phase(phase).MaxContentChars)
}

func (c *Controller) settleInFlight() {
	for _, phase := range models.Phases {
		if c.state.Stage == runningStage(phase) {
			if r := *c.state.Result(phase); r != nil && r.Succeeded {
				c.state.Stage = settledStage(phase)
			}
			return
		}
	}
}

func (c *Controller) clearFrom(phase models.Phase) {
	clearing := false
	for _, p := range models.Phases {
		if p == phase {
			clearing = true
		}
		if clearing {
			*c.state.Result(p) = nil
			delete(c.state.PromptsUsed, p)
		}
	}
}

func runningStage(phase models.Phase) models.Stage {
	switch phase {
	case models.PhaseClassification:
		return models.StageClassifying
	case models.PhaseExtraction:
		return models.StageExtracting
	default:
		return models.StageWriting
	}
}

func settledStage(phase models.Phase) models.Stage {
	switch phase {
	case models.PhaseClassification:
		return models.StageClassified
	case models.PhaseExtraction:
		return models.StageExtracted
	default:
		return models.StageCompleted
	}
}

func priorPhase(phase models.Phase) (models.Phase, bool) {
	switch phase {
	case models.PhaseExtraction:
		return models.PhaseClassification, true
	case models.PhaseWriting:
		return models.PhaseExtraction, true
	default:
		return "", false
	}
}
