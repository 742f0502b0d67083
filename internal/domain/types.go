package domain

import "fmt"

// FeedbackEvent identifies a user-facing lifecycle event.
type FeedbackEvent string

const (
	FeedbackRecordingStarted FeedbackEvent = "start"
	FeedbackRecordingStopped FeedbackEvent = "stop"
	FeedbackDone             FeedbackEvent = "done"
	FeedbackError            FeedbackEvent = "error"
)

// RunResult summarizes one completed dictation cycle.
type RunResult struct {
	Text     string
	Injected bool
	Strategy string
}

// APIError is a structured transcription API failure. StatusCode is zero when
// the provider surfaced no HTTP status.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("api error: %s", e.Message)
}
