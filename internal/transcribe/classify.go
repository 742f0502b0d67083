package transcribe

import (
	"context"
	"errors"
	"strings"

	"voxtype/internal/domain"
)

var retryableStatusCodes = map[int]struct{}{
	429: {},
	500: {},
	502: {},
	503: {},
	504: {},
	529: {},
	599: {},
}

// Substrings matched against unstructured provider error text. Structured
// errors are classified by status code and never reach this table.
var retryableFragments = []string{
	"500", "502", "503", "504", "529", "599",
	"rate limit", "quota", "overloaded", "timeout",
}

// Retryable reports whether err is a transient failure worth retrying on a
// different credential. Errors carrying a *domain.APIError are classified by
// status code; anything else falls back to substring matching on the error
// text.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	// Cancellation means the run itself was aborted. A fired per-request
	// deadline is a timeout like any other and rotates to the next key.
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode > 0 {
		_, ok := retryableStatusCodes[apiErr.StatusCode]
		return ok
	}

	text := strings.ToLower(err.Error())
	for _, fragment := range retryableFragments {
		if strings.Contains(text, fragment) {
			return true
		}
	}
	return false
}
