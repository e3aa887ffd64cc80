package audit

import (
	"github.com/sofrahq/margin/internal/audit/repository"
	"github.com/sofrahq/margin/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
