package service

import (
	"context"
	"time"

	auditdomain "github.com/sofrahq/margin/internal/audit/domain"
	"github.com/sofrahq/margin/internal/billing/stripe"
	"github.com/sofrahq/margin/internal/billing/webhook/domain"
	"github.com/sofrahq/margin/internal/clock"
	subscriptiondomain "github.com/sofrahq/margin/internal/subscription/domain"
	"github.com/sofrahq/margin/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Repo     domain.Repository
	SubSvc   subscriptiondomain.Service
	AuditSvc auditdomain.Service
	Clock    clock.Clock
}

type Service struct {
	log      *zap.Logger
	repo     domain.Repository
	subSvc   subscriptiondomain.Service
	auditSvc auditdomain.Service
	clock    clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("billing.webhook"),
		repo:     p.Repo,
		subSvc:   p.SubSvc,
		auditSvc: p.AuditSvc,
		clock:    p.Clock,
	}
}

func (s *Service) Process(ctx context.Context, payload []byte) (domain.Result, error) {
	event, err := stripe.ParseEvent(payload)
	if err != nil {
		return domain.Result{}, domain.ErrInvalidPayload
	}

	duplicate, err := s.claim(ctx, event)
	if err != nil {
		return domain.Result{}, err
	}
	if duplicate {
		return domain.Result{Received: true, Duplicate: true}, nil
	}

	entityID := event.ID
	switch event.Type {
	case stripe.EventSubscriptionCreated, stripe.EventSubscriptionUpdated:
		object, err := event.ParseSubscriptionObject()
		if err != nil {
			return domain.Result{}, domain.ErrInvalidPayload
		}
		entityID = object.ID

		update := subscriptiondomain.StripeUpdate{
			Plan:                 subscriptiondomain.PlanFromLookupKey(object.PriceLookupKey()),
			Status:               subscriptiondomain.StatusFromProvider(object.Status),
			StripeCustomerID:     object.Customer,
			StripeSubscriptionID: object.ID,
			CurrentPeriodStart:   time.Unix(object.CurrentPeriodStart, 0).UTC(),
			CurrentPeriodEnd:     time.Unix(object.CurrentPeriodEnd, 0).UTC(),
		}
		if _, err := s.subSvc.ApplyStripeUpdate(ctx, update); err != nil {
			return domain.Result{}, err
		}

	case stripe.EventSubscriptionDeleted:
		object, err := event.ParseSubscriptionObject()
		if err != nil {
			return domain.Result{}, domain.ErrInvalidPayload
		}
		entityID = object.ID

		if _, err := s.subSvc.ApplyStripeCancel(ctx, object.ID); err != nil {
			return domain.Result{}, err
		}

	case stripe.EventInvoicePaymentFailed:
		object, err := event.ParseSubscriptionObject()
		if err != nil {
			return domain.Result{}, domain.ErrInvalidPayload
		}
		if object.ID != "" {
			entityID = object.ID
		}

		if _, err := s.subSvc.MarkPastDue(ctx, object.Customer); err != nil {
			return domain.Result{}, err
		}

	default:
		// The provider's event vocabulary is a superset of what this
		// system acts on. Unmatched types are acknowledged, not errors,
		// and still audit against the subject object when it carries one.
		if object, err := event.ParseSubscriptionObject(); err == nil && object.ID != "" {
			entityID = object.ID
		}
	}

	s.appendAudit(ctx, event, entityID)

	return domain.Result{Received: true}, nil
}

// claim performs the idempotency check and insert. The insert is the
// linearization point: when two deliveries of the same event race, the
// unique constraint lets exactly one through and the loser is treated
// as a replay, never as a failure.
func (s *Service) claim(ctx context.Context, event *stripe.Event) (bool, error) {
	exists, err := s.repo.Exists(ctx, event.ID)
	if err != nil {
		return false, err
	}
	if exists {
		return true, nil
	}

	err = s.repo.Insert(ctx, &domain.ProcessedEvent{
		EventID:     event.ID,
		EventType:   event.Type,
		ProcessedAt: s.clock.Now(),
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

func (s *Service) appendAudit(ctx context.Context, event *stripe.Event, entityID string) {
	err := s.auditSvc.Record(ctx, auditdomain.Entry{
		Action:     "stripe_webhook_" + event.Type,
		EntityType: "subscription",
		EntityID:   entityID,
		Metadata: map[string]any{
			"event_id":   event.ID,
			"event_type": event.Type,
		},
	})
	if err != nil {
		s.log.Warn("webhook audit append failed",
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
}
