package assistant

import (
	"github.com/sofrahq/margin/internal/assistant/gateway"
	"github.com/sofrahq/margin/internal/assistant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("assistant",
	fx.Provide(gateway.New),
	fx.Provide(service.New),
)
