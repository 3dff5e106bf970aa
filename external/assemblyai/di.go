package assemblyai

import (
	"github.com/arkship/transcribot/internal/config"
	"github.com/arkship/transcribot/internal/transcriber"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (transcriber.RemoteClient, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewClient(Config{
			BaseURL:      c.AssemblyAIBaseURL,
			APIKey:       c.AssemblyAIAPIKey,
			LanguageCode: c.TranscribeLanguage,
		}), nil
	})
}
