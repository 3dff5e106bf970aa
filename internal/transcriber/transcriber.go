package transcriber

import (
	"context"

	"github.com/arkship/transcribot/internal/progress"
)

// RemoteClient is the transport-level contract with the remote
// speech-to-text service. Open must be called before any network
// operation and Close must release the underlying session.
type RemoteClient interface {
	Open() error
	Close() error
	// Upload pushes raw file bytes and returns the remote media URL.
	Upload(ctx context.Context, path string) (string, error)
	// Submit creates a transcription job for an uploaded media URL.
	Submit(ctx context.Context, audioURL string) (*Job, error)
	// Poll reads the current job state.
	Poll(ctx context.Context, jobID string) (*Job, error)
}

// Processor is the facade the chat frontend drives. The returned text
// is always user-renderable: the transcript on success, a composed
// failure message otherwise; ok reports which.
type Processor interface {
	ProcessFile(ctx context.Context, path string, sink progress.Sink) (text string, ok bool)
}
