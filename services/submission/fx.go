package submission

import (
	"go.uber.org/fx"
)

var Module = fx.Module("submission.service",
	fx.Provide(NewService),
)

var Gateway = fx.Module("submission.gateway",
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
