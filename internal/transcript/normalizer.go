package transcript

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lamim/clipwright/pkg/models"
)

// CaptionSource fetches raw caption entries for a video. Implementations are
// external collaborators; the normalizer only relies on receiving ordered
// (start_seconds, text) pairs.
type CaptionSource interface {
	FetchCaptions(ctx context.Context, videoID string) ([]models.CaptionEntry, error)
}

// FormatTimestamp converts a caption start offset to a display timestamp:
// HH:MM:SS when the offset reaches a full hour, MM:SS otherwise, with
// two-digit zero padding.
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// Normalizer converts raw caption entries into a TranscriptBundle
type Normalizer struct {
	source CaptionSource
	logger *slog.Logger
}

// NewNormalizer creates a new normalizer backed by the given caption source
func NewNormalizer(source CaptionSource, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		source: source,
		logger: logger.With("component", "normalizer"),
	}
}

// Normalize fetches captions for the video and produces a TranscriptBundle.
// The bundle is all-or-nothing: every failure path returns an
// *ExtractionError and no bundle.
func (n *Normalizer) Normalize(ctx context.Context, videoID string) (*models.TranscriptBundle, error) {
	entries, err := n.source.FetchCaptions(ctx, videoID)
	if err != nil {
		return nil, &ExtractionError{VideoID: videoID, Reason: "caption source failed", Err: err}
	}

	if len(entries) == 0 {
		return nil, &ExtractionError{VideoID: videoID, Reason: "caption source returned no data"}
	}

	segments := make([]models.TranscriptSegment, 0, len(entries))
	texts := make([]string, 0, len(entries))
	var formatted strings.Builder

	prevStart := 0.0
	for i, entry := range entries {
		if entry.StartSeconds < 0 {
			return nil, &ExtractionError{
				VideoID: videoID,
				Reason:  fmt.Sprintf("malformed caption entry %d: negative start offset %.3f", i, entry.StartSeconds),
			}
		}
		if entry.StartSeconds < prevStart {
			return nil, &ExtractionError{
				VideoID: videoID,
				Reason:  fmt.Sprintf("malformed caption entry %d: start offset %.3f precedes %.3f", i, entry.StartSeconds, prevStart),
			}
		}
		prevStart = entry.StartSeconds

		// Empty-after-trim entries are retained: downstream consumers
		// decide how to treat empty text.
		text := strings.TrimSpace(entry.Text)
		timestamp := FormatTimestamp(entry.StartSeconds)

		segments = append(segments, models.TranscriptSegment{
			Timestamp:    timestamp,
			StartSeconds: entry.StartSeconds,
			Text:         text,
		})
		texts = append(texts, text)
		fmt.Fprintf(&formatted, "[%s] %s\n", timestamp, text)
	}

	n.logger.Debug("Normalized transcript",
		"video_id", videoID,
		"segments", len(segments),
		"duration", segments[len(segments)-1].Timestamp)

	return &models.TranscriptBundle{
		VideoID:       videoID,
		Segments:      segments,
		FormattedText: formatted.String(),
		PlainText:     strings.Join(texts, " "),
	}, nil
}

// NormalizeReference parses a URL or bare-ID reference and normalizes its
// captions in one step.
func (n *Normalizer) NormalizeReference(ctx context.Context, reference string) (*models.TranscriptBundle, error) {
	videoID, err := ParseVideoID(reference)
	if err != nil {
		return nil, err
	}
	return n.Normalize(ctx, videoID)
}
