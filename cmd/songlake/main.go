package main

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lyrastream/songlake/internal/activity"
	"github.com/lyrastream/songlake/internal/catalog"
	"github.com/lyrastream/songlake/internal/config"
	"github.com/lyrastream/songlake/internal/migration"
	"github.com/lyrastream/songlake/internal/observability"
	"github.com/lyrastream/songlake/internal/pipeline"
	"github.com/lyrastream/songlake/internal/storage"
	"github.com/lyrastream/songlake/internal/warehouse"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		warehouse.Module,
		migration.Module,
		storage.Module,

		catalog.Module,
		activity.Module,
		pipeline.Module,

		fx.Invoke(RunBatch),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

// RunBatch executes one full batch pass and shuts the process down, exiting
// non-zero when the run fails.
func RunBatch(lc fx.Lifecycle, sd fx.Shutdowner, p *pipeline.Pipeline, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if _, err := p.Run(context.Background()); err != nil {
					log.Error("batch run failed", zap.Error(err))
					_ = sd.Shutdown(fx.ExitCode(1))
					return
				}
				_ = sd.Shutdown()
			}()
			return nil
		},
	})
}
