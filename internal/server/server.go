package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	assistantdomain "github.com/sofrahq/margin/internal/assistant/domain"
	webhookdomain "github.com/sofrahq/margin/internal/billing/webhook/domain"
	"github.com/sofrahq/margin/internal/clock"
	"github.com/sofrahq/margin/internal/config"
	"github.com/sofrahq/margin/internal/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewEngine(log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(CORS())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	clock        clock.Clock
	metrics      *metrics.Metrics
	webhookSvc   webhookdomain.Service
	assistantSvc assistantdomain.Service
}

type Params struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	Clock        clock.Clock
	Metrics      *metrics.Metrics
	WebhookSvc   webhookdomain.Service
	AssistantSvc assistantdomain.Service
}

func NewServer(p Params) *Server {
	s := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("server"),
		clock:        p.Clock,
		metrics:      p.Metrics,
		webhookSvc:   p.WebhookSvc,
		assistantSvc: p.AssistantSvc,
	}

	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.POST("/webhooks/stripe", s.HandleStripeWebhook)
	s.engine.POST("/assistant/chat", s.HandleAssistantChat)
}

// RunHTTP starts the listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

// Module wires the gin engine and the HTTP server.
var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)
