package transcriber

import (
	"github.com/arkship/transcribot/internal/config"
	"github.com/arkship/transcribot/internal/media"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		remote := do.MustInvoke[RemoteClient](i)
		extractor := do.MustInvoke[media.Extractor](i)
		return NewService(remote, extractor, cfg.MaxFileSizeBytes()), nil
	})
	do.Provide(injector, func(i do.Injector) (Processor, error) {
		return do.MustInvoke[*Service](i), nil
	})
}
