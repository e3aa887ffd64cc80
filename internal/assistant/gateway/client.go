// Package gateway implements the streamed completion client against an
// OpenAI-compatible chat endpoint.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sofrahq/margin/internal/assistant/domain"
	"github.com/sofrahq/margin/internal/config"
	"go.uber.org/zap"
)

type Client struct {
	log     *zap.Logger
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func New(cfg config.Config, log *zap.Logger) domain.Gateway {
	return &Client{
		log:     log.Named("assistant.gateway"),
		baseURL: cfg.AIGatewayURL,
		apiKey:  cfg.AIGatewayAPIKey,
		model:   cfg.AIModel,
		client: &http.Client{
			// Stream initiation is bounded; the body itself is read by
			// the caller for as long as the upstream keeps emitting.
			Timeout: 0,
		},
	}
}

type chatRequest struct {
	Model    string           `json:"model"`
	Messages []domain.Message `json:"messages"`
	Stream   bool             `json:"stream"`
}

func (c *Client) StreamChat(ctx context.Context, messages []domain.Message) (io.ReadCloser, error) {
	if c.apiKey == "" {
		return nil, domain.ErrGatewayNotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			return nil, domain.ErrUpstreamRateLimited
		case http.StatusPaymentRequired:
			return nil, domain.ErrUpstreamPaymentRequired
		default:
			// The upstream status never reaches the caller raw.
			c.log.Error("ai gateway error",
				zap.Int("status", resp.StatusCode),
				zap.ByteString("body", detail))
			return nil, domain.ErrUpstreamFailure
		}
	}

	return resp.Body, nil
}
