package usage

import (
	"github.com/sofrahq/margin/internal/usage/repository"
	"github.com/sofrahq/margin/internal/usage/service"
	"go.uber.org/fx"
)

var Module = fx.Module("usage",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
