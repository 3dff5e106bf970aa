package discord

import "context"

// Attachment is one file carried by a chat message.
type Attachment struct {
	ID       string
	Filename string
	URL      string
	Size     int64
}

// MessageEvent is a message posted in a text channel the bot can see.
type MessageEvent struct {
	GuildID     string
	ChannelID   string
	MessageID   string
	AuthorID    string
	AuthorIsBot bool
	Attachments []Attachment
}

type FileMessage struct {
	ChannelID string
	Content   string
	Filename  string
	FileBody  []byte
}

type SlashCommandDefinition struct {
	Name        string
	Description string
}

type SlashCommandEvent struct {
	GuildID          string
	ChannelID        string
	CommandName      string
	UserID           string
	RespondEphemeral func(content string) error
}

type Client interface {
	Connect(ctx context.Context) error
	Close() error
	SendChannelMessage(channelID, content string) error
	// SendChannelReply posts a reply to a message and returns the
	// created message ID so the caller can edit it later.
	SendChannelReply(channelID, messageID, content string) (string, error)
	EditChannelMessage(channelID, messageID, content string) error
	SendChannelMessageWithFile(msg FileMessage) error
	DownloadAttachment(ctx context.Context, att Attachment, destPath string) error
	RegisterMessageCreateHandler(handler func(MessageEvent))
	RegisterSlashCommandHandler(handler func(SlashCommandEvent))
	UpsertGuildSlashCommands(guildID string, defs []SlashCommandDefinition) error
	GetBotUserID() (string, error)
	Run() error
}
