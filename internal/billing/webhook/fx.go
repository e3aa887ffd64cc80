package webhook

import (
	"github.com/sofrahq/margin/internal/billing/webhook/repository"
	"github.com/sofrahq/margin/internal/billing/webhook/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.webhook",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
