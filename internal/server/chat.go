package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	assistantdomain "github.com/sofrahq/margin/internal/assistant/domain"
	authdomain "github.com/sofrahq/margin/internal/auth/domain"
	"github.com/sofrahq/margin/internal/metrics"
	"go.uber.org/zap"
)

// HandleAssistantChat runs the access gate and proxies the completion
// stream verbatim.
func (s *Server) HandleAssistantChat(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		s.metrics.ChatRequests.WithLabelValues(metrics.OutcomeDenied).Inc()
		AbortWithError(c, authdomain.ErrMissingToken)
		return
	}

	var req assistantdomain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	stream, err := s.assistantSvc.Chat(c.Request.Context(), token, req)
	if err != nil {
		s.metrics.ChatRequests.WithLabelValues(metrics.OutcomeDenied).Inc()
		AbortWithError(c, err)
		return
	}
	defer func() {
		_ = stream.Body.Close()
	}()

	s.metrics.ChatRequests.WithLabelValues(metrics.OutcomeStreamed).Inc()

	c.Header("Content-Type", "text/event-stream")
	c.Status(http.StatusOK)

	// Each upstream chunk is flushed immediately; events are tiny and
	// would otherwise sit in the response buffer until the upstream
	// closes.
	buf := make([]byte, 4096)
	for {
		n, readErr := stream.Body.Read(buf)
		if n > 0 {
			if _, err := c.Writer.Write(buf[:n]); err != nil {
				// Caller went away mid-stream; nothing left to answer.
				s.log.Debug("chat stream interrupted", zap.Error(err))
				return
			}
			c.Writer.Flush()
		}
		if readErr != nil {
			if readErr != io.EOF {
				s.log.Debug("chat stream interrupted", zap.Error(readErr))
			}
			return
		}
	}
}
