package user

import (
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(NewService),
)

var Gateway = fx.Module("user.gateway",
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
