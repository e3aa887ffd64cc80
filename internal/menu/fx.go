package menu

import (
	"github.com/sofrahq/margin/internal/menu/repository"
	"github.com/sofrahq/margin/internal/menu/service"
	"go.uber.org/fx"
)

var Module = fx.Module("menu",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
