package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/sofrahq/margin/internal/audit/domain"
	"github.com/sofrahq/margin/internal/clock"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Service struct {
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(log *zap.Logger, repo domain.Repository, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &Service{
		log:   log.Named("audit.service"),
		repo:  repo,
		genID: genID,
		clock: clk,
	}
}

func (s *Service) Record(ctx context.Context, entry domain.Entry) error {
	action := strings.TrimSpace(entry.Action)
	if action == "" {
		return domain.ErrInvalidAction
	}

	entityType := strings.TrimSpace(entry.EntityType)
	if entityType == "" {
		entityType = "unknown"
	}

	payload := map[string]any{}
	for key, value := range entry.Metadata {
		if key == "" {
			continue
		}
		payload[key] = value
	}

	row := domain.AuditLog{
		ID:         s.genID.Generate(),
		ActorID:    entry.ActorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   strings.TrimSpace(entry.EntityID),
		Metadata:   datatypes.JSONMap(payload),
		CreatedAt:  s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, &row); err != nil {
		s.log.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}
