package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/arkship/transcribot/internal/config"
	"github.com/arkship/transcribot/internal/discord"
	"github.com/arkship/transcribot/internal/progress"
	"github.com/arkship/transcribot/internal/repository"
	"github.com/arkship/transcribot/internal/transcriber"
	"github.com/arkship/transcribot/internal/webhook"
	"github.com/google/uuid"
)

const (
	// Bound on how long the pipeline may wait for the progress
	// renderer to take one update before dropping it.
	progressPublishTimeout = 3 * time.Second

	// Discord rejects messages above this rune count; longer
	// transcripts go out as a file attachment.
	maxMessageRunes = 1900
)

type Manager struct {
	cfg       *config.Config
	discord   discord.Client
	processor transcriber.Processor
	repo      repository.Repository
	webhook   webhook.Sender
	botUserID string
}

func NewManager(cfg *config.Config, dc discord.Client, processor transcriber.Processor, repo repository.Repository, wh webhook.Sender) *Manager {
	return &Manager{
		cfg:       cfg,
		discord:   dc,
		processor: processor,
		repo:      repo,
		webhook:   wh,
	}
}

func (m *Manager) SetBotUserID(userID string) {
	m.botUserID = userID
}

func SlashCommandDefinitions() []discord.SlashCommandDefinition {
	return []discord.SlashCommandDefinition{
		{Name: slashCommandHelp, Description: slashCommandHelpDescription},
		{Name: slashCommandStats, Description: slashCommandStatsDescription},
	}
}

func (m *Manager) HandleMessageCreate(event discord.MessageEvent) {
	if event.AuthorIsBot || event.AuthorID == m.botUserID {
		return
	}
	if event.GuildID != m.cfg.DiscordGuildID {
		return
	}
	if len(event.Attachments) == 0 {
		return
	}

	att, kind, ok := pickMediaAttachment(event.Attachments)
	if !ok {
		slog.Info("message carried no supported media", "message_id", event.MessageID)
		if err := m.discord.SendChannelMessage(event.ChannelID, messageUnsupportedFormat); err != nil {
			slog.Error("failed to send unsupported-format reply", "error", err, "channel_id", event.ChannelID)
		}
		return
	}
	if att.Size > m.cfg.MaxFileSizeBytes() {
		slog.Warn("attachment exceeds size limit", "message_id", event.MessageID, "bytes", att.Size)
		if err := m.discord.SendChannelMessage(event.ChannelID, messageFileTooLarge); err != nil {
			slog.Error("failed to send size-limit reply", "error", err, "channel_id", event.ChannelID)
		}
		return
	}

	slog.Info("media message accepted", "message_id", event.MessageID, "filename", att.Filename, "kind", kind, "bytes", att.Size)
	go m.processMediaMessage(event, att, kind)
}

func pickMediaAttachment(attachments []discord.Attachment) (discord.Attachment, transcriber.MediaKind, bool) {
	for _, att := range attachments {
		kind := transcriber.ClassifyExtension(attachmentExtension(att))
		if kind != transcriber.MediaKindUnsupported {
			return att, kind, true
		}
	}
	return discord.Attachment{}, transcriber.MediaKindUnsupported, false
}

func attachmentExtension(att discord.Attachment) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(att.Filename)), ".")
}

func (m *Manager) processMediaMessage(event discord.MessageEvent, att discord.Attachment, kind transcriber.MediaKind) {
	ctx := context.Background()

	statusID, err := m.discord.SendChannelReply(event.ChannelID, event.MessageID, messageProcessingStart)
	if err != nil {
		slog.Error("failed to post status message", "error", err, "channel_id", event.ChannelID)
		return
	}

	localPath, err := m.downloadToTemp(ctx, att)
	if err != nil {
		slog.Error("attachment download failed", "error", err, "attachment_id", att.ID)
		m.editStatus(event.ChannelID, statusID, messageProcessingError)
		return
	}
	defer func() {
		if err := os.Remove(localPath); err != nil {
			slog.Warn("failed to remove downloaded file", "path", localPath, "error", err)
			return
		}
		slog.Info("removed downloaded file", "path", localPath)
	}()

	sink := progress.NewChannelSink(progressPublishTimeout)
	rendererDone := make(chan struct{})
	go func() {
		defer close(rendererDone)
		m.renderProgress(event.ChannelID, statusID, sink.Updates())
	}()

	text, ok := m.processor.ProcessFile(ctx, localPath, sink)
	sink.Close()
	<-rendererDone

	m.deliverResult(event, att, kind, text, ok)
}

func (m *Manager) downloadToTemp(ctx context.Context, att discord.Attachment) (string, error) {
	if err := os.MkdirAll(m.cfg.TempDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	localPath := filepath.Join(m.cfg.TempDir, uuid.NewString()+"."+attachmentExtension(att))
	if err := m.discord.DownloadAttachment(ctx, att, localPath); err != nil {
		return "", err
	}
	return localPath, nil
}

// renderProgress consumes bridge updates and mirrors them into the
// status message. It runs on its own goroutine so a slow Discord edit
// can only delay rendering, never the pipeline.
func (m *Manager) renderProgress(channelID, statusID string, updates <-chan progress.Update) {
	lastRendered := ""
	for u := range updates {
		rendered := progress.RenderBar(u.Percent, u.Message)
		if rendered == lastRendered {
			continue
		}
		if err := m.discord.EditChannelMessage(channelID, statusID, rendered); err != nil {
			slog.Error("failed to edit progress message", "error", err, "channel_id", channelID, "message_id", statusID)
			continue
		}
		lastRendered = rendered
	}
}

func (m *Manager) deliverResult(event discord.MessageEvent, att discord.Attachment, kind transcriber.MediaKind, text string, ok bool) {
	if ok && utf8.RuneCountInString(text) > maxMessageRunes {
		err := m.discord.SendChannelMessageWithFile(discord.FileMessage{
			ChannelID: event.ChannelID,
			Content:   messageTranscriptAttached,
			Filename:  fmt.Sprintf("transcript-%s.txt", att.ID),
			FileBody:  []byte(text),
		})
		if err != nil {
			slog.Error("failed to send transcript file", "error", err, "channel_id", event.ChannelID)
		}
	} else {
		if _, err := m.discord.SendChannelReply(event.ChannelID, event.MessageID, text); err != nil {
			slog.Error("failed to send result reply", "error", err, "channel_id", event.ChannelID)
		}
	}
	if !ok {
		return
	}
	m.archiveTranscript(event, att, kind, text)
}

// archiveTranscript records the completed result and notifies the
// configured webhook. Both are best effort: the user already has the
// reply, so storage trouble only gets logged.
func (m *Manager) archiveTranscript(event discord.MessageEvent, att discord.Attachment, kind transcriber.MediaKind, text string) {
	ctx := context.Background()
	stored, err := m.repo.InsertTranscript(ctx, repository.InsertTranscriptInput{
		GuildID:        event.GuildID,
		ChannelID:      event.ChannelID,
		RequestedBy:    event.AuthorID,
		SourceFilename: att.Filename,
		MediaKind:      string(kind),
		Text:           text,
	})
	if err != nil {
		slog.Error("failed to archive transcript", "error", err, "message_id", event.MessageID)
		return
	}
	slog.Info("transcript archived", "transcript_id", stored.ID, "message_id", event.MessageID)

	if err := m.webhook.SendTranscript(ctx, webhook.TranscriptPayload{
		TranscriptID:   stored.ID,
		GuildID:        stored.GuildID,
		ChannelID:      stored.ChannelID,
		SourceFilename: stored.SourceFilename,
		Text:           stored.Text,
		CreatedAt:      stored.CreatedAt,
	}); err != nil {
		slog.Error("failed to send transcript webhook", "error", err, "transcript_id", stored.ID)
	}
}

func (m *Manager) HandleSlashCommand(event discord.SlashCommandEvent) {
	if event.GuildID != m.cfg.DiscordGuildID {
		m.respondEphemeral(event, messageEphemeralWrongGuild)
		return
	}
	switch event.CommandName {
	case slashCommandHelp:
		m.respondEphemeral(event, messageHelp)
	case slashCommandStats:
		count, err := m.repo.CountByGuild(context.Background(), event.GuildID)
		if err != nil {
			slog.Error("failed to count transcripts", "error", err, "guild_id", event.GuildID)
			m.respondEphemeral(event, messageEphemeralStatsFailed)
			return
		}
		m.respondEphemeral(event, fmt.Sprintf(messageEphemeralStatsFormat, count))
	default:
		m.respondEphemeral(event, messageEphemeralUnknownCmd)
	}
}

func (m *Manager) respondEphemeral(event discord.SlashCommandEvent, content string) {
	if event.RespondEphemeral == nil {
		return
	}
	if err := event.RespondEphemeral(content); err != nil {
		slog.Error("failed to respond to slash command", "error", err, "command", event.CommandName)
	}
}

func (m *Manager) editStatus(channelID, messageID, content string) {
	if err := m.discord.EditChannelMessage(channelID, messageID, content); err != nil {
		slog.Error("failed to edit status message", "error", err, "channel_id", channelID, "message_id", messageID)
	}
}
