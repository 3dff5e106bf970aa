package repository

import (
	"context"

	"github.com/arkship/transcribot/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) InsertTranscript(ctx context.Context, input repository.InsertTranscriptInput) (*repository.Transcript, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO transcripts (guild_id, channel_id, requested_by, source_filename, media_kind, text)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, guild_id, channel_id, requested_by, source_filename, media_kind, text, created_at`,
		input.GuildID, input.ChannelID, input.RequestedBy, input.SourceFilename, input.MediaKind, input.Text)
	var t repository.Transcript
	err := row.Scan(&t.ID, &t.GuildID, &t.ChannelID, &t.RequestedBy, &t.SourceFilename, &t.MediaKind, &t.Text, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepository) CountByGuild(ctx context.Context, guildID string) (int64, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transcripts WHERE guild_id = $1`,
		guildID)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
