package withdrawal

import (
	"go.uber.org/fx"
)

var Module = fx.Module("withdrawal.service",
	fx.Provide(NewService),
)

var Gateway = fx.Module("withdrawal.gateway",
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
