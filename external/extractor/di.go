package extractor

import (
	"github.com/arkship/transcribot/internal/config"
	"github.com/arkship/transcribot/internal/media"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (media.Extractor, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewFFmpegExtractor(c.TempDir), nil
	})
}
