package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*Restaurant, error)
}

type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Restaurant, error)
}

var ErrNotFound = errors.New("restaurant not found")
