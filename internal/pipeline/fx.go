package pipeline

import "go.uber.org/fx"

// Module provides the batch pipeline.
var Module = fx.Module("pipeline",
	fx.Provide(New),
)
