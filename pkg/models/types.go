package models

import "time"

// Phase identifies one generation step of the article pipeline
type Phase string

const (
	// PhaseClassification infers the content type of the transcript
	PhaseClassification Phase = "classification"
	// PhaseExtraction pulls structural elements out of the transcript
	PhaseExtraction Phase = "extraction"
	// PhaseWriting composes the final article from the extracted elements
	PhaseWriting Phase = "writing"
)

// Phases lists all pipeline phases in execution order
var Phases = []Phase{PhaseClassification, PhaseExtraction, PhaseWriting}

// Stage represents the controller's position in a run
type Stage string

const (
	StageIdle        Stage = "idle"
	StageReady       Stage = "ready"
	StageClassifying Stage = "classifying"
	StageClassified  Stage = "classified"
	StageExtracting  Stage = "extracting"
	StageExtracted   Stage = "extracted"
	StageWriting     Stage = "writing"
	StageCompleted   Stage = "completed"
	StageFailed      Stage = "failed"
)

// CaptionEntry is a raw unit from the caption source
type CaptionEntry struct {
	StartSeconds float64
	Text         string
}

// TranscriptSegment is a single normalized caption with a display timestamp.
// Derived 1:1 from a CaptionEntry; immutable once created.
type TranscriptSegment struct {
	Timestamp    string  `json:"timestamp"`
	StartSeconds float64 `json:"start_seconds"`
	Text         string  `json:"text"`
}

// TranscriptBundle is the normalized, immutable representation of a video's
// captions used as pipeline input. FormattedText and PlainText are pure
// functions of Segments.
type TranscriptBundle struct {
	VideoID       string
	Segments      []TranscriptSegment
	FormattedText string
	PlainText     string
}

// PhaseResult is the cached outcome of one phase within one run. A result
// exists only for phases that succeeded; failure details live on
// PipelineState (FailedPhase, LastError) since the failed phase's slot
// stays empty.
type PhaseResult struct {
	Phase     Phase  `json:"phase"`
	Text      string `json:"text"`
	Succeeded bool   `json:"succeeded"`
}

// PipelineState is the single mutable object a pipeline controller owns.
// Exactly one PipelineState exists per TranscriptBundle per run.
type PipelineState struct {
	RunID          string
	Stage          Stage
	Bundle         *TranscriptBundle
	Classification *PhaseResult
	Extraction     *PhaseResult
	Article        *PhaseResult

	// PromptsUsed records the assembled request text sent for each
	// successful phase, keyed by phase.
	PromptsUsed map[Phase]string

	// FailedPhase and LastError identify which phase moved the run to
	// StageFailed, so the caller can retry just that phase.
	FailedPhase Phase
	LastError   string
}

// Result returns a pointer to the slot holding the given phase's result
func (s *PipelineState) Result(phase Phase) **PhaseResult {
	switch phase {
	case PhaseClassification:
		return &s.Classification
	case PhaseExtraction:
		return &s.Extraction
	default:
		return &s.Article
	}
}

// RunStats tracks statistics for one pipeline run
type RunStats struct {
	StartTime     time.Time
	EndTime       time.Time
	PhasesRun     int
	SuccessCount  int
	FailureCount  int
	TotalDuration time.Duration
}
