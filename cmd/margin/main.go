package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/sofrahq/margin/internal/assistant"
	"github.com/sofrahq/margin/internal/audit"
	"github.com/sofrahq/margin/internal/auth"
	"github.com/sofrahq/margin/internal/billing/webhook"
	"github.com/sofrahq/margin/internal/clock"
	"github.com/sofrahq/margin/internal/config"
	"github.com/sofrahq/margin/internal/logger"
	"github.com/sofrahq/margin/internal/menu"
	"github.com/sofrahq/margin/internal/metrics"
	"github.com/sofrahq/margin/internal/restaurant"
	"github.com/sofrahq/margin/internal/server"
	"github.com/sofrahq/margin/internal/subscription"
	"github.com/sofrahq/margin/internal/usage"
	"github.com/sofrahq/margin/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		metrics.Module,

		auth.Module,
		restaurant.Module,
		subscription.Module,
		usage.Module,
		audit.Module,
		menu.Module,
		webhook.Module,
		assistant.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
