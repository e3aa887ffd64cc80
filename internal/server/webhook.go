package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	stripesig "github.com/sofrahq/margin/internal/billing/stripe"
	"github.com/sofrahq/margin/internal/metrics"
	"go.uber.org/zap"
)

// HandleStripeWebhook verifies the delivery over the exact raw bytes,
// then hands it to the idempotent processor. Only transport and
// signature failures produce non-200 responses; business-logic
// mismatches are acknowledged so the provider does not retry them.
func (s *Server) HandleStripeWebhook(c *gin.Context) {
	if s.cfg.StripeWebhookSecret == "" {
		s.log.Error("stripe webhook secret not configured")
		AbortWithError(c, ErrWebhookNotConfigured)
		return
	}

	signature := c.GetHeader("stripe-signature")
	if signature == "" {
		AbortWithError(c, stripesig.ErrMissingSignature)
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := stripesig.VerifySignature(payload, signature, s.cfg.StripeWebhookSecret, s.clock.Now()); err != nil {
		s.log.Warn("invalid stripe signature", zap.Error(err))
		s.metrics.WebhookEvents.WithLabelValues("unknown", metrics.OutcomeRejected).Inc()
		AbortWithError(c, err)
		return
	}

	result, err := s.webhookSvc.Process(c.Request.Context(), payload)
	if err != nil {
		s.log.Error("webhook processing failed", zap.Error(err))
		s.metrics.WebhookEvents.WithLabelValues("unknown", metrics.OutcomeError).Inc()
		AbortWithError(c, err)
		return
	}

	outcome := metrics.OutcomeProcessed
	if result.Duplicate {
		outcome = metrics.OutcomeDuplicate
	}
	s.metrics.WebhookEvents.WithLabelValues(eventTypeLabel(payload), outcome).Inc()

	c.JSON(http.StatusOK, result)
}

// eventTypeLabel re-reads only the type tag for the metric label.
func eventTypeLabel(payload []byte) string {
	event, err := stripesig.ParseEvent(payload)
	if err != nil || event.Type == "" {
		return "unknown"
	}
	return event.Type
}
