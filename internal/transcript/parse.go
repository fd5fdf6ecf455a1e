package transcript

import "regexp"

// Accepted reference shapes: watch URLs, short links, embed URLs, any other
// youtube.com URL carrying a v= query parameter, or a bare video ID.
var (
	referencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
		regexp.MustCompile(`youtube\.com/.*[?&]v=([^&\n?#]+)`),
	}
	bareIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ParseVideoID extracts the video identifier from a URL or bare-ID reference.
// Pure string-pattern matching with no side effects.
func ParseVideoID(reference string) (string, error) {
	for _, pattern := range referencePatterns {
		if m := pattern.FindStringSubmatch(reference); m != nil {
			return m[1], nil
		}
	}

	if bareIDPattern.MatchString(reference) {
		return reference, nil
	}

	return "", &InvalidReferenceError{Reference: reference}
}
