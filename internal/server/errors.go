package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	assistantdomain "github.com/sofrahq/margin/internal/assistant/domain"
	authdomain "github.com/sofrahq/margin/internal/auth/domain"
	stripesig "github.com/sofrahq/margin/internal/billing/stripe"
	webhookdomain "github.com/sofrahq/margin/internal/billing/webhook/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

var (
	ErrWebhookNotConfigured = errors.New("webhook not configured")
	ErrInvalidRequest       = errors.New("invalid_request")
)

// ErrorHandlingMiddleware maps domain errors collected on the context to
// the caller-facing status and message after the handler returns.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// mapError keeps the user-facing strings distinct per failure category
// so the frontend can render an upgrade prompt, an access-denied state,
// or a retry hint without parsing status codes alone. Internal detail
// never leaks here; it is logged server-side.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, "Invalid request"

	// Webhook endpoint.
	case errors.Is(err, ErrWebhookNotConfigured):
		return http.StatusInternalServerError, "Webhook not configured"
	case errors.Is(err, stripesig.ErrMissingSignature):
		return http.StatusBadRequest, "Missing signature"
	case errors.Is(err, stripesig.ErrInvalidSignature):
		return http.StatusUnauthorized, "Invalid signature"
	case errors.Is(err, webhookdomain.ErrInvalidPayload):
		return http.StatusInternalServerError, "Webhook processing failed"

	// Chat endpoint: authentication.
	case errors.Is(err, authdomain.ErrMissingToken):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked):
		return http.StatusUnauthorized, "Invalid session"

	// Chat endpoint: authorization and capacity.
	case errors.Is(err, assistantdomain.ErrMissingRestaurantID):
		return http.StatusBadRequest, "Restaurant id is required"
	case errors.Is(err, assistantdomain.ErrInvalidRestaurantID):
		return http.StatusBadRequest, "Invalid restaurant id"
	case errors.Is(err, assistantdomain.ErrNotOwner):
		return http.StatusForbidden, "You do not have access to this restaurant"
	case errors.Is(err, assistantdomain.ErrPlanRequired):
		return http.StatusForbidden, "The AI assistant is available on the Elite plan. Upgrade your subscription to get access."
	case errors.Is(err, assistantdomain.ErrMonthlyCapExceeded):
		return http.StatusTooManyRequests, "Monthly AI usage limit reached. The limit resets at the start of next month."
	case errors.Is(err, assistantdomain.ErrUpstreamRateLimited):
		return http.StatusTooManyRequests, "Rate limit exceeded, please try again later."
	case errors.Is(err, assistantdomain.ErrUpstreamPaymentRequired):
		return http.StatusPaymentRequired, "Please add credits to continue using the AI assistant."

	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
