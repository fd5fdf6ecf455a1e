package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/lamim/clipwright/pkg/models"
)

// DefaultTimedTextURL is the public caption endpoint
const DefaultTimedTextURL = "https://video.google.com/timedtext"

// TimedTextSource fetches captions from the timedtext XML endpoint
type TimedTextSource struct {
	httpClient *http.Client
	baseURL    string
	language   string
	logger     *slog.Logger
}

// NewTimedTextSource creates a caption source for the given language code
func NewTimedTextSource(language string, logger *slog.Logger) *TimedTextSource {
	return &TimedTextSource{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultTimedTextURL,
		language:   language,
		logger:     logger.With("component", "timedtext"),
	}
}

type timedTextDocument struct {
	XMLName xml.Name       `xml:"transcript"`
	Texts   []timedTextCue `xml:"text"`
}

type timedTextCue struct {
	Start float64 `xml:"start,attr"`
	Dur   float64 `xml:"dur,attr"`
	Body  string  `xml:",chardata"`
}

// FetchCaptions retrieves the caption track for a video as ordered entries
func (s *TimedTextSource) FetchCaptions(ctx context.Context, videoID string) ([]models.CaptionEntry, error) {
	query := url.Values{}
	query.Set("lang", s.language)
	query.Set("v", videoID)
	endpoint := s.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("caption request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("caption request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read caption response: %w", err)
	}

	// The endpoint returns an empty body when no track exists for the
	// requested language.
	if len(body) == 0 {
		return nil, fmt.Errorf("no %s caption track for video %s", s.language, videoID)
	}

	var doc timedTextDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse caption XML: %w", err)
	}

	entries := make([]models.CaptionEntry, 0, len(doc.Texts))
	for _, cue := range doc.Texts {
		entries = append(entries, models.CaptionEntry{
			StartSeconds: cue.Start,
			Text:         html.UnescapeString(cue.Body),
		})
	}

	s.logger.Debug("Fetched captions", "video_id", videoID, "entries", len(entries))
	return entries, nil
}
