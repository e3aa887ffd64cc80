package auth

import (
	"github.com/sofrahq/margin/internal/auth/repository"
	"github.com/sofrahq/margin/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
