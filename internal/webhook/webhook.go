package webhook

import (
	"context"
	"time"
)

// TranscriptPayload is the notification body posted once a
// transcription completed and was archived.
type TranscriptPayload struct {
	TranscriptID   string    `json:"transcript_id"`
	GuildID        string    `json:"guild_id"`
	ChannelID      string    `json:"channel_id"`
	SourceFilename string    `json:"source_filename"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

type Sender interface {
	SendTranscript(ctx context.Context, payload TranscriptPayload) error
}
