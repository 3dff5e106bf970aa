package repository

import "time"

// Transcript is one archived transcription result. Only completed
// transcriptions are archived; in-flight job state never touches
// storage.
type Transcript struct {
	ID             string
	GuildID        string
	ChannelID      string
	RequestedBy    string
	SourceFilename string
	MediaKind      string
	Text           string
	CreatedAt      time.Time
}
