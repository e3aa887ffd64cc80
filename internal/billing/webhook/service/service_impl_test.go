package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	auditdomain "github.com/sofrahq/margin/internal/audit/domain"
	auditrepo "github.com/sofrahq/margin/internal/audit/repository"
	auditservice "github.com/sofrahq/margin/internal/audit/service"
	"github.com/sofrahq/margin/internal/billing/webhook/domain"
	webhookrepo "github.com/sofrahq/margin/internal/billing/webhook/repository"
	"github.com/sofrahq/margin/internal/clock"
	subscriptiondomain "github.com/sofrahq/margin/internal/subscription/domain"
	subscriptionrepo "github.com/sofrahq/margin/internal/subscription/repository"
	subscriptionservice "github.com/sofrahq/margin/internal/subscription/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = gdb.AutoMigrate(
		&domain.ProcessedEvent{},
		&subscriptiondomain.Subscription{},
		&auditdomain.AuditLog{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

type fixture struct {
	svc   domain.Service
	db    *gorm.DB
	clock *clock.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := openTestDB(t)
	log := zap.NewNop()
	clk := clock.NewFakeClock(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	subSvc := subscriptionservice.New(log, subscriptionrepo.Provide(gdb), clk)
	auditSvc := auditservice.New(log, auditrepo.Provide(gdb), node, clk)

	svc := New(Params{
		Log:      log,
		Repo:     webhookrepo.Provide(gdb),
		SubSvc:   subSvc,
		AuditSvc: auditSvc,
		Clock:    clk,
	})
	return &fixture{svc: svc, db: gdb, clock: clk}
}

func (f *fixture) seedSubscription(t *testing.T, customerID, subscriptionID string) uuid.UUID {
	t.Helper()
	restaurantID := uuid.New()
	node, _ := snowflake.NewNode(2)
	sub := subscriptiondomain.Subscription{
		ID:           node.Generate(),
		RestaurantID: restaurantID,
		Plan:         subscriptiondomain.PlanFree,
		Status:       subscriptiondomain.StatusActive,
		CreatedAt:    f.clock.Now(),
		UpdatedAt:    f.clock.Now(),
	}
	if customerID != "" {
		sub.StripeCustomerID = &customerID
	}
	if subscriptionID != "" {
		sub.StripeSubscriptionID = &subscriptionID
	}
	if err := f.db.Create(&sub).Error; err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	return restaurantID
}

func (f *fixture) subscription(t *testing.T, restaurantID uuid.UUID) subscriptiondomain.Subscription {
	t.Helper()
	var sub subscriptiondomain.Subscription
	if err := f.db.Where("restaurant_id = ?", restaurantID).First(&sub).Error; err != nil {
		t.Fatalf("load subscription: %v", err)
	}
	return sub
}

func (f *fixture) countRows(t *testing.T, model any) int64 {
	t.Helper()
	var count int64
	if err := f.db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}

func subscriptionEvent(eventID, eventType, subscriptionID, customerID, status, lookupKey string, periodStart, periodEnd int64) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"type": %q,
		"data": {"object": {
			"id": %q,
			"customer": %q,
			"status": %q,
			"current_period_start": %d,
			"current_period_end": %d,
			"items": {"data": [{"price": {"lookup_key": %q}}]}
		}}
	}`, eventID, eventType, subscriptionID, customerID, status, periodStart, periodEnd, lookupKey))
}

func TestProcessSubscriptionUpdated(t *testing.T) {
	f := newFixture(t)
	restaurantID := f.seedSubscription(t, "cus_1", "")

	payload := subscriptionEvent("evt_1", "customer.subscription.updated",
		"sub_1", "cus_1", "active", "plan_pro_monthly", 1_749_000_000, 1_751_592_000)

	result, err := f.svc.Process(context.Background(), payload)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !result.Received || result.Duplicate {
		t.Fatalf("unexpected result: %+v", result)
	}

	sub := f.subscription(t, restaurantID)
	if sub.Plan != subscriptiondomain.PlanPro {
		t.Fatalf("plan = %q, want pro", sub.Plan)
	}
	if sub.Status != subscriptiondomain.StatusActive {
		t.Fatalf("status = %q, want active", sub.Status)
	}
	if sub.StripeSubscriptionID == nil || *sub.StripeSubscriptionID != "sub_1" {
		t.Fatalf("stripe_subscription_id not recorded: %+v", sub.StripeSubscriptionID)
	}
	if sub.CurrentPeriodEnd == nil || sub.CurrentPeriodEnd.Unix() != 1_751_592_000 {
		t.Fatalf("current_period_end not recorded: %+v", sub.CurrentPeriodEnd)
	}

	if got := f.countRows(t, &domain.ProcessedEvent{}); got != 1 {
		t.Fatalf("processed events = %d, want 1", got)
	}

	var entry auditdomain.AuditLog
	if err := f.db.First(&entry).Error; err != nil {
		t.Fatalf("load audit entry: %v", err)
	}
	if entry.Action != "stripe_webhook_customer.subscription.updated" {
		t.Fatalf("audit action = %q", entry.Action)
	}
	if entry.ActorID != nil {
		t.Fatalf("webhook audit entry should have no actor, got %v", entry.ActorID)
	}
	if entry.EntityID != "sub_1" {
		t.Fatalf("audit entity id = %q, want sub_1", entry.EntityID)
	}
}

func TestProcessReplayIsDuplicate(t *testing.T) {
	f := newFixture(t)
	restaurantID := f.seedSubscription(t, "cus_2", "")

	payload := subscriptionEvent("evt_replay", "customer.subscription.updated",
		"sub_2", "cus_2", "active", "plan_elite_monthly", 1_749_000_000, 1_751_592_000)

	first, err := f.svc.Process(context.Background(), payload)
	if err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if first.Duplicate {
		t.Fatalf("first delivery flagged duplicate")
	}

	firstState := f.subscription(t, restaurantID)
	f.clock.Advance(time.Minute)

	second, err := f.svc.Process(context.Background(), payload)
	if err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	if !second.Received || !second.Duplicate {
		t.Fatalf("replay result = %+v, want received duplicate", second)
	}

	if got := f.subscription(t, restaurantID); !got.UpdatedAt.Equal(firstState.UpdatedAt) {
		t.Fatalf("replay mutated the subscription")
	}
	if got := f.countRows(t, &domain.ProcessedEvent{}); got != 1 {
		t.Fatalf("processed events = %d, want 1", got)
	}
	if got := f.countRows(t, &auditdomain.AuditLog{}); got != 1 {
		t.Fatalf("audit entries = %d, want 1", got)
	}
}

func TestProcessSubscriptionDeleted(t *testing.T) {
	f := newFixture(t)
	restaurantID := f.seedSubscription(t, "cus_3", "sub_3")
	if err := f.db.Model(&subscriptiondomain.Subscription{}).
		Where("restaurant_id = ?", restaurantID).
		Update("plan", subscriptiondomain.PlanElite).Error; err != nil {
		t.Fatalf("promote seed: %v", err)
	}

	payload := subscriptionEvent("evt_del", "customer.subscription.deleted",
		"sub_3", "cus_3", "canceled", "plan_elite_monthly", 0, 0)

	result, err := f.svc.Process(context.Background(), payload)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !result.Received {
		t.Fatalf("unexpected result: %+v", result)
	}

	sub := f.subscription(t, restaurantID)
	if sub.Plan != subscriptiondomain.PlanFree {
		t.Fatalf("plan after cancel = %q, want free", sub.Plan)
	}
	if sub.Status != subscriptiondomain.StatusCanceled {
		t.Fatalf("status after cancel = %q, want canceled", sub.Status)
	}
}

func TestProcessInvoicePaymentFailed(t *testing.T) {
	f := newFixture(t)
	restaurantID := f.seedSubscription(t, "cus_4", "sub_4")
	if err := f.db.Model(&subscriptiondomain.Subscription{}).
		Where("restaurant_id = ?", restaurantID).
		Update("plan", subscriptiondomain.PlanPro).Error; err != nil {
		t.Fatalf("promote seed: %v", err)
	}

	payload := []byte(`{
		"id": "evt_inv",
		"type": "invoice.payment_failed",
		"data": {"object": {"id": "in_1", "customer": "cus_4"}}
	}`)

	if _, err := f.svc.Process(context.Background(), payload); err != nil {
		t.Fatalf("process: %v", err)
	}

	sub := f.subscription(t, restaurantID)
	if sub.Status != subscriptiondomain.StatusPastDue {
		t.Fatalf("status = %q, want past_due", sub.Status)
	}
	if sub.Plan != subscriptiondomain.PlanPro {
		t.Fatalf("payment failure must not change the plan, got %q", sub.Plan)
	}
}

func TestProcessUnmatchedEventType(t *testing.T) {
	f := newFixture(t)
	restaurantID := f.seedSubscription(t, "cus_5", "")

	payload := []byte(`{"id": "evt_other", "type": "charge.succeeded", "data": {"object": {"id": "ch_1"}}}`)

	result, err := f.svc.Process(context.Background(), payload)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !result.Received || result.Duplicate {
		t.Fatalf("unexpected result: %+v", result)
	}

	sub := f.subscription(t, restaurantID)
	if sub.Plan != subscriptiondomain.PlanFree || sub.Status != subscriptiondomain.StatusActive {
		t.Fatalf("unmatched event mutated the subscription: %+v", sub)
	}

	var entry auditdomain.AuditLog
	if err := f.db.First(&entry).Error; err != nil {
		t.Fatalf("load audit entry: %v", err)
	}
	if entry.EntityID != "ch_1" {
		t.Fatalf("audit entity id = %q, want the subject object id", entry.EntityID)
	}
	if got := f.countRows(t, &auditdomain.AuditLog{}); got != 1 {
		t.Fatalf("audit entries = %d, want 1", got)
	}
}

func TestProcessUnmatchedEventTypeWithoutObject(t *testing.T) {
	f := newFixture(t)

	payload := []byte(`{"id": "evt_bare", "type": "charge.succeeded", "data": {}}`)

	result, err := f.svc.Process(context.Background(), payload)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !result.Received {
		t.Fatalf("unexpected result: %+v", result)
	}

	var entry auditdomain.AuditLog
	if err := f.db.First(&entry).Error; err != nil {
		t.Fatalf("load audit entry: %v", err)
	}
	if entry.EntityID != "evt_bare" {
		t.Fatalf("audit entity id = %q, want the event id fallback", entry.EntityID)
	}
}

func TestProcessInvalidPayload(t *testing.T) {
	f := newFixture(t)

	for _, payload := range []string{"not json", `{"type":"missing.id"}`} {
		if _, err := f.svc.Process(context.Background(), []byte(payload)); !errors.Is(err, domain.ErrInvalidPayload) {
			t.Fatalf("payload %q: err = %v, want ErrInvalidPayload", payload, err)
		}
	}
	if got := f.countRows(t, &domain.ProcessedEvent{}); got != 0 {
		t.Fatalf("invalid payloads must not claim event ids, got %d rows", got)
	}
}

type racingRepo struct {
	inner domain.Repository
}

// Exists lies so the insert path runs against an already-claimed id,
// simulating a concurrent delivery landing between check and insert.
func (r *racingRepo) Exists(ctx context.Context, eventID string) (bool, error) {
	return false, nil
}

func (r *racingRepo) Insert(ctx context.Context, event *domain.ProcessedEvent) error {
	return r.inner.Insert(ctx, event)
}

func TestProcessConcurrentClaimLosesAsDuplicate(t *testing.T) {
	gdb := openTestDB(t)
	log := zap.NewNop()
	clk := clock.NewFakeClock(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	node, _ := snowflake.NewNode(1)

	repo := webhookrepo.Provide(gdb)
	svc := New(Params{
		Log:      log,
		Repo:     &racingRepo{inner: repo},
		SubSvc:   subscriptionservice.New(log, subscriptionrepo.Provide(gdb), clk),
		AuditSvc: auditservice.New(log, auditrepo.Provide(gdb), node, clk),
		Clock:    clk,
	})

	if err := repo.Insert(context.Background(), &domain.ProcessedEvent{
		EventID:     "evt_race",
		EventType:   "customer.subscription.updated",
		ProcessedAt: clk.Now(),
	}); err != nil {
		t.Fatalf("pre-claim: %v", err)
	}

	payload := subscriptionEvent("evt_race", "customer.subscription.updated",
		"sub_r", "cus_r", "active", "plan_pro_monthly", 0, 0)
	result, err := svc.Process(context.Background(), payload)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !result.Received || !result.Duplicate {
		t.Fatalf("race loser result = %+v, want received duplicate", result)
	}
}

type failingAuditService struct{}

func (failingAuditService) Record(ctx context.Context, entry auditdomain.Entry) error {
	return errors.New("audit store down")
}

func TestProcessSucceedsWhenAuditFails(t *testing.T) {
	gdb := openTestDB(t)
	log := zap.NewNop()
	clk := clock.NewFakeClock(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))

	svc := New(Params{
		Log:      log,
		Repo:     webhookrepo.Provide(gdb),
		SubSvc:   subscriptionservice.New(log, subscriptionrepo.Provide(gdb), clk),
		AuditSvc: failingAuditService{},
		Clock:    clk,
	})

	payload := subscriptionEvent("evt_audit", "customer.subscription.updated",
		"sub_a", "cus_a", "active", "plan_pro_monthly", 0, 0)
	result, err := svc.Process(context.Background(), payload)
	if err != nil {
		t.Fatalf("audit failure must not fail processing: %v", err)
	}
	if !result.Received {
		t.Fatalf("unexpected result: %+v", result)
	}
}
