package repository

import "context"

type InsertTranscriptInput struct {
	GuildID        string
	ChannelID      string
	RequestedBy    string
	SourceFilename string
	MediaKind      string
	Text           string
}

type Repository interface {
	InsertTranscript(ctx context.Context, input InsertTranscriptInput) (*Transcript, error)
	CountByGuild(ctx context.Context, guildID string) (int64, error)
}
