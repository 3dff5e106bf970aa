package session

import (
	"github.com/arkship/transcribot/internal/config"
	"github.com/arkship/transcribot/internal/discord"
	"github.com/arkship/transcribot/internal/repository"
	"github.com/arkship/transcribot/internal/transcriber"
	"github.com/arkship/transcribot/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		dc := do.MustInvoke[discord.Client](i)
		processor := do.MustInvoke[transcriber.Processor](i)
		repo := do.MustInvoke[repository.Repository](i)
		wh := do.MustInvoke[webhook.Sender](i)
		return NewManager(cfg, dc, processor, repo, wh), nil
	})
}
