package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sofrahq/margin/internal/restaurant/domain"
	"go.uber.org/zap"
)

type Service struct {
	log  *zap.Logger
	repo domain.Repository
}

func New(log *zap.Logger, repo domain.Repository) domain.Service {
	return &Service{
		log:  log.Named("restaurant.service"),
		repo: repo,
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error) {
	return s.repo.FindByID(ctx, id)
}
