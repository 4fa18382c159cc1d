package catalog

import (
	"github.com/lyrastream/songlake/internal/config"
	"github.com/lyrastream/songlake/internal/storage"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the catalog extractor.
var Module = fx.Module("catalog",
	fx.Provide(func(store storage.Store, log *zap.Logger, cfg config.Config) *Extractor {
		return New(store, log, cfg.ExtractWorkers)
	}),
)
