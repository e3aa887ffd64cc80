package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/sofrahq/margin/internal/auth/domain"
	"github.com/sofrahq/margin/internal/clock"
	"go.uber.org/zap"
)

type Service struct {
	log   *zap.Logger
	repo  domain.Repository
	clock clock.Clock
}

func New(log *zap.Logger, repo domain.Repository, clk clock.Clock) domain.Service {
	return &Service{
		log:   log.Named("auth.service"),
		repo:  repo,
		clock: clk,
	}
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.Identity, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, domain.ErrMissingToken
	}

	session, err := s.repo.FindByTokenHash(ctx, hashToken(rawToken))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, err
	}

	now := s.clock.Now()
	if session.RevokedAt != nil {
		return nil, domain.ErrSessionRevoked
	}
	if !session.ExpiresAt.After(now) {
		return nil, domain.ErrSessionExpired
	}

	return &domain.Identity{
		UserID:    session.UserID,
		SessionID: session.ID,
	}, nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// HashToken exposes the session token digest for fixtures that need to
// seed sessions the way the identity provider does.
func HashToken(raw string) string {
	return hashToken(raw)
}
