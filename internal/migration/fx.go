package migration

import (
	"github.com/lyrastream/songlake/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module prepares the destination tables on startup, before the pipeline runs.
var Module = fx.Module("migrations",
	fx.Invoke(func(db *gorm.DB, cfg config.Config) error {
		return Run(db, cfg)
	}),
)
