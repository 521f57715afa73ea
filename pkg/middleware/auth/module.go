package auth

import "go.uber.org/fx"

func ProvideAuthMiddleware() *Middleware { return NewFromEnv() }

var Module = fx.Options(
	fx.Provide(ProvideAuthMiddleware),
)
