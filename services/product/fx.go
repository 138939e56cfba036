package product

import (
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(NewService),
)

var Gateway = fx.Module("product.gateway",
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
