package config

import (
	"fmt"
	"log/slog"

	internalconfig "github.com/arkship/transcribot/internal/config"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type envConfig struct {
	Env                  string `env:"ENV" envDefault:"production"`
	DiscordToken         string `env:"DISCORD_TOKEN,required"`
	DiscordGuildID       string `env:"DISCORD_GUILD_ID,required"`
	AssemblyAIAPIKey     string `env:"ASSEMBLYAI_API_KEY,required"`
	AssemblyAIBaseURL    string `env:"ASSEMBLYAI_BASE_URL" envDefault:"https://api.assemblyai.com/v2"`
	TranscribeLanguage   string `env:"TRANSCRIBE_LANGUAGE" envDefault:"ru"`
	MaxFileSizeMB        int    `env:"MAX_FILE_SIZE_MB" envDefault:"500"`
	TempDir              string `env:"TEMP_DIR" envDefault:"temp"`
	DatabaseURL          string `env:"DATABASE_URL,required"`
	TranscriptWebhookURL string `env:"TRANSCRIPT_WEBHOOK_URL"`
}

func Load() (*internalconfig.Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                  raw.Env,
		DiscordToken:         raw.DiscordToken,
		DiscordGuildID:       raw.DiscordGuildID,
		AssemblyAIAPIKey:     raw.AssemblyAIAPIKey,
		AssemblyAIBaseURL:    raw.AssemblyAIBaseURL,
		TranscribeLanguage:   raw.TranscribeLanguage,
		MaxFileSizeMB:        raw.MaxFileSizeMB,
		TempDir:              raw.TempDir,
		DatabaseURL:          raw.DatabaseURL,
		TranscriptWebhookURL: raw.TranscriptWebhookURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
