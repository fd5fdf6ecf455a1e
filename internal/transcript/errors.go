package transcript

import "fmt"

// InvalidReferenceError indicates a video reference that matches no known
// URL or identifier pattern. Pure input validation; never reaches the network.
type InvalidReferenceError struct {
	Reference string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("no known video reference pattern matches %q", e.Reference)
}

// ExtractionError indicates the caption source was unavailable, returned no
// data, or returned malformed entries. A bundle is never partially populated:
// the caller receives this error instead.
type ExtractionError struct {
	VideoID string
	Reason  string
	Err     error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("caption extraction failed for %s: %s: %v", e.VideoID, e.Reason, e.Err)
	}
	return fmt.Sprintf("caption extraction failed for %s: %s", e.VideoID, e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
