package warehouse

import (
	"github.com/lyrastream/songlake/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module opens the destination database and provides the sink.
var Module = fx.Module("warehouse",
	fx.Provide(
		Open,
		func(db *gorm.DB, cfg config.Config) Sink {
			return NewSink(db, cfg.WriteBatchSize)
		},
	),
)
