package assemblyai

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/url"
	"time"

	"github.com/arkship/transcribot/internal/transcriber"
)

type retryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
}

var defaultRetryPolicy = retryPolicy{
	maxAttempts: 3,
	baseDelay:   time.Second,
}

// withRetry runs op up to maxAttempts times, backing off baseDelay
// multiplied by the attempt number between tries. Only transient
// transport failures are retried; remote rejections and context
// cancellation propagate immediately. An exhausted budget surfaces as
// transcriber.NetworkError wrapping the last attempt's error.
func (c *Client) withRetry(ctx context.Context, operation string, op func() error) error {
	var lastErr error
	for attempt := 1; attempt <= c.retry.maxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		lastErr = err
		slog.Warn("transient network error", "operation", operation, "attempt", attempt, "max_attempts", c.retry.maxAttempts, "error", err)
		if attempt == c.retry.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retry.baseDelay * time.Duration(attempt)):
		}
	}
	return &transcriber.NetworkError{Attempts: c.retry.maxAttempts, Err: lastErr}
}

func isTransient(err error) bool {
	var remoteErr *transcriber.RemoteError
	if errors.As(err, &remoteErr) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
