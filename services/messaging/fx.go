package messaging

import (
	"go.uber.org/fx"
)

var Module = fx.Module("messaging.service",
	fx.Provide(NewService),
)

var Gateway = fx.Module("messaging.gateway",
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
