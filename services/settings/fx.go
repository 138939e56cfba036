package settings

import (
	"go.uber.org/fx"
)

var Module = fx.Module("settings.service",
	fx.Provide(NewService),
)

var Gateway = fx.Module("settings.gateway",
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
