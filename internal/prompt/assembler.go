// Package prompt assembles the exact request text sent to the generation
// service for each pipeline phase. Assembly is a pure function of
// (phase, template, prior results, raw content, budget): no I/O, no state.
package prompt

import (
	"fmt"

	"github.com/lamim/clipwright/internal/util"
	"github.com/lamim/clipwright/pkg/models"
)

// TruncationMarker is appended whenever a phase's content input is cut to its
// budget, so the generation service and any downstream reviewer can see that
// content is missing.
const TruncationMarker = "\n\n[Note: content truncated due to length]"

// Inputs holds the content available to a phase when its prompt is assembled
type Inputs struct {
	Transcript     string
	Classification string
	Extraction     string
}

// Truncate cuts s to budgetChars runes and appends the truncation marker.
// A budget <= 0 means unlimited. Reports whether truncation occurred.
func Truncate(s string, budgetChars int) (string, bool) {
	if budgetChars <= 0 {
		return s, false
	}
	runes := []rune(s)
	if len(runes) <= budgetChars {
		return s, false
	}
	return string(runes[:budgetChars]) + TruncationMarker, true
}

// Assemble builds the request text for a phase. The phase's primary content
// input is truncated to budgetChars before it is embedded; for the extraction
// and writing phases the prior phase's result is placed before the phase's
// own instructional template text, so the model conditions on prior output.
func Assemble(phase models.Phase, templateText string, in Inputs, budgetChars int) (string, error) {
	var prior string

	switch phase {
	case models.PhaseClassification:
		in.Transcript, _ = Truncate(in.Transcript, budgetChars)
	case models.PhaseExtraction:
		if in.Classification == "" {
			return "", fmt.Errorf("extraction prompt requires a classification result")
		}
		in.Transcript, _ = Truncate(in.Transcript, budgetChars)
		prior = in.Classification
	case models.PhaseWriting:
		if in.Extraction == "" {
			return "", fmt.Errorf("writing prompt requires an extraction result")
		}
		in.Extraction, _ = Truncate(in.Extraction, budgetChars)
		prior = in.Extraction
	default:
		return "", fmt.Errorf("unknown phase: %s", phase)
	}

	rendered, err := util.RenderTemplate(templateText, map[string]interface{}{
		"Transcript":     in.Transcript,
		"Classification": in.Classification,
		"Extraction":     in.Extraction,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", phase, err)
	}

	if prior == "" {
		return rendered, nil
	}
	return prior + "\n\n" + rendered, nil
}
