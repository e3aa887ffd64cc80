package restaurant

import (
	"github.com/sofrahq/margin/internal/restaurant/repository"
	"github.com/sofrahq/margin/internal/restaurant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("restaurant",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
