package assignment

import (
	"go.uber.org/fx"
)

var Module = fx.Module("assignment.service",
	fx.Provide(NewRandomPicker, NewService),
)

var Gateway = fx.Module("assignment.gateway",
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)

// Worker wires the asynq consumer and the daily scheduler; only the worker
// binary loads it.
var Worker = fx.Module("assignment.worker",
	fx.Provide(NewScheduler),
	fx.Invoke(RegisterTaskHandler, StartScheduler),
)
