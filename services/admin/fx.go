package admin

import (
	"go.uber.org/fx"
)

var Module = fx.Module("admin.service",
	fx.Provide(NewService),
)

var Gateway = fx.Module("admin.gateway",
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
