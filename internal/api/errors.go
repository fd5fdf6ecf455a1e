package api

import "fmt"

// APIError represents an error returned by the generation service
type APIError struct {
	Message    string
	StatusCode int
	Type       string
	Code       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error: %s", e.Message)
}

// CredentialError indicates the generation credential is invalid or could not
// be verified. It is checked once per run, before the first phase.
type CredentialError struct {
	Reason string
	Err    error
}

func (e *CredentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("credential validation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("credential validation failed: %s", e.Reason)
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}
