package observability

import (
	"github.com/lyrastream/songlake/internal/config"
	"github.com/lyrastream/songlake/internal/observability/metrics"
	"go.uber.org/fx"
)

// Module wires the logger and run metrics.
var Module = fx.Module("observability",
	fx.Provide(
		NewLogger,
		provideMetricsConfig,
		metrics.WithConfig,
	),
)

func provideMetricsConfig(cfg config.Config) metrics.Config {
	return metrics.Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
	}
}
