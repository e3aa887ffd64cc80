package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/sofrahq/margin/internal/clock"
	"github.com/sofrahq/margin/internal/usage/domain"
	"go.uber.org/zap"
)

type Service struct {
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(log *zap.Logger, repo domain.Repository, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &Service{
		log:   log.Named("usage.service"),
		repo:  repo,
		genID: genID,
		clock: clk,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordRequest) error {
	if req.TokensUsed < 0 {
		return domain.ErrInvalidTokens
	}

	entry := domain.UsageLog{
		ID:           s.genID.Generate(),
		RestaurantID: req.RestaurantID,
		UserID:       req.UserID,
		TokensUsed:   req.TokensUsed,
		Model:        req.Model,
		CreatedAt:    s.clock.Now(),
	}
	return s.repo.Insert(ctx, &entry)
}

func (s *Service) MonthlyTokens(ctx context.Context, restaurantID uuid.UUID, now time.Time) (int64, error) {
	from, to := monthBounds(now)
	return s.repo.SumTokens(ctx, restaurantID, from, to)
}

func monthBounds(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
