package subscription

import (
	"github.com/sofrahq/margin/internal/subscription/repository"
	"github.com/sofrahq/margin/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
