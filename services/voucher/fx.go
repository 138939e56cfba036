package voucher

import (
	"go.uber.org/fx"
)

var Module = fx.Module("voucher.service",
	fx.Provide(NewService),
)

var Gateway = fx.Module("voucher.gateway",
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
