package transcriber

// Status is the remote job state. Transitions are monotonic:
// queued → processing → completed or error, never backward.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Terminal reports whether no further status reads can change the job.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Job is one remote transcription lifecycle, identified by the
// server-issued ID. It lives only for the duration of a single request.
type Job struct {
	ID        string
	Status    Status
	Text      string
	ErrorCode string
}

// MediaKind classifies an input file by its container family.
type MediaKind string

const (
	MediaKindAudio       MediaKind = "audio"
	MediaKindVideo       MediaKind = "video"
	MediaKindUnsupported MediaKind = "unsupported"
)

var audioExtensions = map[string]struct{}{
	"mp3": {}, "wav": {}, "ogg": {}, "m4a": {}, "flac": {},
}

var videoExtensions = map[string]struct{}{
	"mp4": {}, "avi": {}, "mov": {}, "mkv": {}, "wmv": {},
}

// ClassifyExtension maps a bare lowercase file extension (no dot) to a
// media kind.
func ClassifyExtension(ext string) MediaKind {
	if _, ok := audioExtensions[ext]; ok {
		return MediaKindAudio
	}
	if _, ok := videoExtensions[ext]; ok {
		return MediaKindVideo
	}
	return MediaKindUnsupported
}
