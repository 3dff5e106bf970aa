package media

import "context"

// Extractor strips the audio track out of a video container. The
// returned path points at a freshly created artifact owned by the
// caller, who must remove it on every exit path.
type Extractor interface {
	ExtractAudio(ctx context.Context, videoPath string) (string, error)
}
