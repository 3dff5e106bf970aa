package progress

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Update is one progress event flowing from the transcription pipeline
// to a presentation layer. Message is empty for a normal tick and holds
// a user-facing error text for a terminal failure tick.
type Update struct {
	Percent int
	Message string
}

// Sink receives progress updates. Implementations must tolerate being
// called from the pipeline goroutine and must not block it indefinitely.
type Sink interface {
	Publish(percent int, message string)
}

// SinkFunc adapts a plain function into a Sink, for callers that can be
// invoked directly on the pipeline goroutine.
type SinkFunc func(percent int, message string)

func (f SinkFunc) Publish(percent int, message string) {
	f(Clamp(percent), message)
}

// ChannelSink bridges updates to a consumer running in a different
// goroutine. Publish waits at most the configured timeout for the
// consumer to take the update; a slow consumer loses the update instead
// of stalling the pipeline.
type ChannelSink struct {
	ch      chan Update
	timeout time.Duration
}

func NewChannelSink(timeout time.Duration) *ChannelSink {
	return &ChannelSink{
		ch:      make(chan Update),
		timeout: timeout,
	}
}

// Updates is the consumer side of the bridge. It is closed by Close.
func (s *ChannelSink) Updates() <-chan Update {
	return s.ch
}

func (s *ChannelSink) Publish(percent int, message string) {
	u := Update{Percent: Clamp(percent), Message: message}
	timer := time.NewTimer(s.timeout)
	defer timer.Stop()
	select {
	case s.ch <- u:
	case <-timer.C:
		slog.Warn("progress update dropped: consumer did not receive in time",
			"percent", u.Percent, "timeout", s.timeout)
	}
}

// Close releases the consumer. No Publish may be issued after Close.
func (s *ChannelSink) Close() {
	close(s.ch)
}

// Clamp bounds a percentage to [0, 100].
func Clamp(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

const (
	barTotalDots = 10
	barFilledDot = "🟢"
	barEmptyDot  = "⚪"
)

// RenderBar formats a percentage as a dot progress bar, or an error
// line when message is non-empty. It is a pure function: rendering
// needs no session or network state.
func RenderBar(percent int, message string) string {
	if message != "" {
		return "❌ " + message
	}
	p := Clamp(percent)
	filled := p * barTotalDots / 100
	bar := strings.Repeat(barFilledDot, filled) + strings.Repeat(barEmptyDot, barTotalDots-filled)
	return fmt.Sprintf("%s %d%%", bar, p)
}
