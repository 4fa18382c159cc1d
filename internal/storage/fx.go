package storage

import "go.uber.org/fx"

// Module provides the object store collaborator.
var Module = fx.Module("storage",
	fx.Provide(func() Store { return NewLocal() }),
)
