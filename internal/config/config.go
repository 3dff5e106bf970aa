package config

import "fmt"

type Config struct {
	Env                  string
	DiscordToken         string
	DiscordGuildID       string
	AssemblyAIAPIKey     string
	AssemblyAIBaseURL    string
	TranscribeLanguage   string
	MaxFileSizeMB        int
	TempDir              string
	DatabaseURL          string
	TranscriptWebhookURL string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE_MB must be positive, got %d", c.MaxFileSizeMB)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "DISCORD_TOKEN", value: c.DiscordToken},
		{name: "DISCORD_GUILD_ID", value: c.DiscordGuildID},
		{name: "ASSEMBLYAI_API_KEY", value: c.AssemblyAIAPIKey},
		{name: "ASSEMBLYAI_BASE_URL", value: c.AssemblyAIBaseURL},
		{name: "TRANSCRIBE_LANGUAGE", value: c.TranscribeLanguage},
		{name: "TEMP_DIR", value: c.TempDir},
		{name: "DATABASE_URL", value: c.DatabaseURL},
	}
}

// MaxFileSizeBytes is the upload ceiling the remote service accepts.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
