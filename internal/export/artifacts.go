package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lamim/clipwright/pkg/models"
)

// RunRecord is the machine-readable summary of one completed pipeline run
type RunRecord struct {
	RunID          string                     `json:"run_id"`
	VideoID        string                     `json:"video_id"`
	Classification *models.PhaseResult        `json:"classification,omitempty"`
	Extraction     *models.PhaseResult        `json:"extraction,omitempty"`
	Article        *models.PhaseResult        `json:"article,omitempty"`
	PromptsUsed    map[models.Phase]string    `json:"prompts_used,omitempty"`
	Segments       []models.TranscriptSegment `json:"segments,omitempty"`
}

// Exporter writes run artifacts into the session directory
type Exporter struct {
	sessionMgr *SessionManager
	logger     *slog.Logger
}

// NewExporter creates an exporter bound to a session directory
func NewExporter(sessionMgr *SessionManager, logger *slog.Logger) *Exporter {
	return &Exporter{
		sessionMgr: sessionMgr,
		logger:     logger.With("component", "export"),
	}
}

// ExportTranscript writes the timestamped transcript as plain text
func (e *Exporter) ExportTranscript(bundle *models.TranscriptBundle) (string, error) {
	if bundle == nil {
		return "", fmt.Errorf("no transcript bundle to export")
	}
	path := e.path("transcript_" + bundle.VideoID + ".txt")
	if err := os.WriteFile(path, []byte(bundle.FormattedText), 0644); err != nil {
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}
	e.logger.Info("Exported transcript", "path", path)
	return path, nil
}

// ExportSegments writes the normalized segments as JSON
func (e *Exporter) ExportSegments(bundle *models.TranscriptBundle) (string, error) {
	if bundle == nil {
		return "", fmt.Errorf("no transcript bundle to export")
	}
	data, err := json.MarshalIndent(bundle.Segments, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal segments: %w", err)
	}
	path := e.path("segments_" + bundle.VideoID + ".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write segments: %w", err)
	}
	e.logger.Info("Exported segments", "path", path)
	return path, nil
}

// ExportArticle writes the generated article as Markdown
func (e *Exporter) ExportArticle(state *models.PipelineState) (string, error) {
	if state.Article == nil || !state.Article.Succeeded {
		return "", fmt.Errorf("no article to export")
	}
	path := e.path("article_" + state.Bundle.VideoID + ".md")
	if err := os.WriteFile(path, []byte(state.Article.Text), 0644); err != nil {
		return "", fmt.Errorf("failed to write article: %w", err)
	}
	e.logger.Info("Exported article", "path", path)
	return path, nil
}

// ExportRecord writes the full run record, including intermediate phase
// results, as JSON
func (e *Exporter) ExportRecord(state *models.PipelineState) (string, error) {
	if state.Bundle == nil {
		return "", fmt.Errorf("no run to export")
	}
	record := RunRecord{
		RunID:          state.RunID,
		VideoID:        state.Bundle.VideoID,
		Classification: state.Classification,
		Extraction:     state.Extraction,
		Article:        state.Article,
		PromptsUsed:    state.PromptsUsed,
		Segments:       state.Bundle.Segments,
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run record: %w", err)
	}
	path := e.path("record_" + state.Bundle.VideoID + ".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write run record: %w", err)
	}
	e.logger.Info("Exported run record", "path", path)
	return path, nil
}

// ExportAll writes every artifact a completed run produces
func (e *Exporter) ExportAll(state *models.PipelineState) error {
	if _, err := e.ExportTranscript(state.Bundle); err != nil {
		return err
	}
	if _, err := e.ExportSegments(state.Bundle); err != nil {
		return err
	}
	if _, err := e.ExportArticle(state); err != nil {
		return err
	}
	if _, err := e.ExportRecord(state); err != nil {
		return err
	}
	return nil
}

func (e *Exporter) path(name string) string {
	return filepath.Join(e.sessionMgr.GetSessionDir(), name)
}
