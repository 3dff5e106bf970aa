package transcriber

import (
	"errors"
	"fmt"
)

// ErrSessionNotReady marks a lifecycle misuse: a network operation was
// issued outside an Open/Close pair.
var ErrSessionNotReady = errors.New("transcriber session is not open")

// NetworkError is returned once the retry budget for a transient
// transport failure is exhausted. It wraps the last attempt's error.
type NetworkError struct {
	Attempts int
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error after %d attempts: %v", e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RemoteError is a non-retryable HTTP-level rejection from the remote
// service.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote service returned status %d: %s", e.StatusCode, e.Body)
}

// Failure is the unit of error propagation out of the transcription
// core. Progress is the last percentage known when the failure
// occurred, so a caller can render a partial-progress failure state.
type Failure struct {
	Message  string
	Progress int
}

func (f *Failure) Error() string {
	return f.Message
}

func newFailure(message string, progress int) *Failure {
	return &Failure{Message: message, Progress: progress}
}

// AsFailure converts any error leaving the poller into a Failure,
// folding the last known progress into errors that do not carry one.
func AsFailure(err error, progress int) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return newFailure(messageNetworkFailed, progress)
	}
	return newFailure(messageServiceFailed, progress)
}
