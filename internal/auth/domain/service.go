package domain

import "context"

// Service verifies opaque bearer tokens against the session store.
type Service interface {
	Authenticate(ctx context.Context, rawToken string) (*Identity, error)
}

type Repository interface {
	FindByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
}
