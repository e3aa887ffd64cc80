package service

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/sofrahq/margin/internal/assistant/domain"
	auditdomain "github.com/sofrahq/margin/internal/audit/domain"
	authdomain "github.com/sofrahq/margin/internal/auth/domain"
	"github.com/sofrahq/margin/internal/clock"
	"github.com/sofrahq/margin/internal/config"
	menudomain "github.com/sofrahq/margin/internal/menu/domain"
	restaurantdomain "github.com/sofrahq/margin/internal/restaurant/domain"
	subscriptiondomain "github.com/sofrahq/margin/internal/subscription/domain"
	usagedomain "github.com/sofrahq/margin/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// tokenOverhead pads the per-request estimate to cover the system
// prompt and the response itself.
const tokenOverhead = 500

type Params struct {
	fx.In

	Cfg           config.Config
	Log           *zap.Logger
	AuthSvc       authdomain.Service
	RestaurantSvc restaurantdomain.Service
	SubSvc        subscriptiondomain.Service
	UsageSvc      usagedomain.Service
	MenuSvc       menudomain.Service
	AuditSvc      auditdomain.Service
	Gateway       domain.Gateway
	Clock         clock.Clock
}

type Service struct {
	cfg           config.Config
	log           *zap.Logger
	authSvc       authdomain.Service
	restaurantSvc restaurantdomain.Service
	subSvc        subscriptiondomain.Service
	usageSvc      usagedomain.Service
	menuSvc       menudomain.Service
	auditSvc      auditdomain.Service
	gateway       domain.Gateway
	clock         clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		cfg:           p.Cfg,
		log:           p.Log.Named("assistant.service"),
		authSvc:       p.AuthSvc,
		restaurantSvc: p.RestaurantSvc,
		subSvc:        p.SubSvc,
		usageSvc:      p.UsageSvc,
		menuSvc:       p.MenuSvc,
		auditSvc:      p.AuditSvc,
		gateway:       p.Gateway,
		clock:         p.Clock,
	}
}

func (s *Service) Chat(ctx context.Context, rawToken string, req domain.ChatRequest) (*domain.ChatStream, error) {
	identity, err := s.authSvc.Authenticate(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	restaurantID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		if strings.TrimSpace(req.RestaurantID) == "" {
			return nil, domain.ErrMissingRestaurantID
		}
		return nil, domain.ErrInvalidRestaurantID
	}

	restaurant, err := s.restaurantSvc.Get(ctx, restaurantID)
	if err != nil {
		if err == restaurantdomain.ErrNotFound {
			return nil, domain.ErrNotOwner
		}
		return nil, err
	}
	if restaurant.OwnerID != identity.UserID {
		return nil, domain.ErrNotOwner
	}

	plan, err := s.subSvc.PlanFor(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if plan != subscriptiondomain.PlanElite {
		return nil, domain.ErrPlanRequired
	}

	monthly, err := s.usageSvc.MonthlyTokens(ctx, restaurantID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if monthly >= domain.MonthlyTokenCap {
		return nil, domain.ErrMonthlyCapExceeded
	}

	sanitized := sanitizeMessages(req.Messages)

	summary, err := s.menuSvc.Summary(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(sanitized)+1)
	messages = append(messages, domain.Message{
		Role:    "system",
		Content: buildSystemPrompt(restaurant, summary),
	})
	messages = append(messages, sanitized...)

	body, err := s.gateway.StreamChat(ctx, messages)
	if err != nil {
		return nil, err
	}

	// Best effort from here on: the stream is already committed to the
	// caller, a logging failure must not corrupt it.
	s.recordUsage(ctx, identity, restaurantID, sanitized)
	s.appendAudit(ctx, identity, restaurantID, len(sanitized))

	return &domain.ChatStream{Body: body}, nil
}

func sanitizeMessages(messages []domain.Message) []domain.Message {
	out := make([]domain.Message, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == "assistant" {
			role = "assistant"
		}
		content := []rune(m.Content)
		if len(content) > domain.MaxInputLength {
			content = content[:domain.MaxInputLength]
		}
		out = append(out, domain.Message{Role: role, Content: string(content)})
	}
	return out
}

func estimateTokens(messages []domain.Message) int64 {
	chars := 0
	for _, m := range messages {
		chars += len([]rune(m.Content))
	}
	return int64(math.Ceil(float64(chars)/4)) + tokenOverhead
}

func (s *Service) recordUsage(ctx context.Context, identity *authdomain.Identity, restaurantID uuid.UUID, messages []domain.Message) {
	err := s.usageSvc.Record(ctx, usagedomain.RecordRequest{
		RestaurantID: restaurantID,
		UserID:       identity.UserID,
		TokensUsed:   estimateTokens(messages),
		Model:        s.cfg.AIModel,
	})
	if err != nil {
		s.log.Warn("usage append failed",
			zap.String("restaurant_id", restaurantID.String()),
			zap.Error(err))
	}
}

func (s *Service) appendAudit(ctx context.Context, identity *authdomain.Identity, restaurantID uuid.UUID, messageCount int) {
	actorID := identity.UserID
	err := s.auditSvc.Record(ctx, auditdomain.Entry{
		ActorID:    &actorID,
		Action:     "ai_chat",
		EntityType: "restaurant",
		EntityID:   restaurantID.String(),
		Metadata: map[string]any{
			"message_count": messageCount,
		},
	})
	if err != nil {
		s.log.Warn("chat audit append failed",
			zap.String("restaurant_id", restaurantID.String()),
			zap.Error(err))
	}
}
