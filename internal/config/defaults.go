package config

import "github.com/lamim/clipwright/pkg/models"

const (
	// DefaultClassificationBudget is the truncation budget for the
	// classification phase; a coarse pass over the raw transcript is
	// enough to infer the genre.
	DefaultClassificationBudget = 5000
	// DefaultExtractionBudget is the truncation budget for the extraction
	// phase. Needs enough text to surface all thematic elements.
	DefaultExtractionBudget = 15000
)

// DefaultContentBudget returns the default truncation budget for a phase.
// The writing phase operates on the already-condensed extraction result,
// which is bounded by the extraction phase's own output-token cap, so it
// carries no budget of its own.
func DefaultContentBudget(phase models.Phase) int {
	switch phase {
	case models.PhaseClassification:
		return DefaultClassificationBudget
	case models.PhaseExtraction:
		return DefaultExtractionBudget
	default:
		return -1
	}
}

// GetDefaultClassificationTemplate returns the default classification prompt
func GetDefaultClassificationTemplate() string {
	return `You are a content analyst. Read the following video transcript and determine what kind of content it is.

Transcript:
{{.Transcript}}

Describe, in two or three sentences: the content type (for example tutorial, interview, lecture, product review, news report, vlog), the likely target audience, and the overall tone.`
}

// GetDefaultExtractionTemplate returns the default extraction prompt
func GetDefaultExtractionTemplate() string {
	return `You are an editorial researcher. Using the content assessment above, extract the structural elements of the following transcript: the main thesis, the key points in the order they are made, notable quotes with their timestamps, and any data or examples worth keeping.

Transcript:
{{.Transcript}}

Return the elements as a concise outline.`
}

// GetDefaultWritingTemplate returns the default article-writing prompt
func GetDefaultWritingTemplate() string {
	return `You are a professional content writer. Using the structural elements above, compose a well-structured, engaging article.

The article must:
1. Open with an engaging title and introduction
2. Use clear sections and headers
3. Preserve the key information and quotes
4. Read in a professional, accessible style

Format the output in clean markdown.`
}
