// Package domain contains the assistant chat contract: the access gate
// the handler runs before any model call, and the streamed result.
package domain

import (
	"context"
	"errors"
	"io"
)

// MonthlyTokenCap bounds a tenant's assistant usage per calendar month.
const MonthlyTokenCap = 100_000

// MaxInputLength truncates each inbound message before forwarding,
// independent of plan.
const MaxInputLength = 4000

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages     []Message `json:"messages"`
	RestaurantID string    `json:"restaurantId"`
}

// ChatStream is the upstream completion stream, proxied verbatim.
type ChatStream struct {
	Body io.ReadCloser
}

type Service interface {
	// Chat authorizes the caller along every axis, then opens the
	// completion stream. Checks are ordered and fail closed; the first
	// violated axis returns without touching any later one.
	Chat(ctx context.Context, rawToken string, req ChatRequest) (*ChatStream, error)
}

// Gateway is the upstream completion API.
type Gateway interface {
	StreamChat(ctx context.Context, messages []Message) (io.ReadCloser, error)
}

var (
	ErrMissingRestaurantID = errors.New("missing restaurant id")
	ErrInvalidRestaurantID = errors.New("invalid restaurant id")
	ErrNotOwner            = errors.New("not restaurant owner")
	ErrPlanRequired        = errors.New("elite plan required")
	ErrMonthlyCapExceeded  = errors.New("monthly token cap exceeded")

	ErrGatewayNotConfigured    = errors.New("ai gateway not configured")
	ErrUpstreamRateLimited     = errors.New("upstream rate limited")
	ErrUpstreamPaymentRequired = errors.New("upstream payment required")
	ErrUpstreamFailure         = errors.New("upstream failure")
)
