package assistant

import (
	"context"
	"fmt"

	"healthgate/cmd/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Degraded replies for the three external-call failure classes. The
// caller always gets human-readable text, never a transport error.
const (
	msgServiceUnavailable = "AI service unavailable."
	msgUnexpectedFormat   = "Unexpected API response format."
)

// ChatMessage is one role/content entry of a completion exchange.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// CompletionClient wraps the outbound completion endpoint. One bounded
// call per request, no retries; a failed call surfaces once as degraded
// text.
type CompletionClient struct {
	httpClient *resty.Client
	cfg        config.AssistantConfig
	logger     *zap.Logger
}

func NewCompletionClient(cfg config.AssistantConfig, logger *zap.Logger) *CompletionClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &CompletionClient{httpClient: client, cfg: cfg, logger: logger}
}

// Complete runs one exchange and returns the completion text, or a
// degraded message for transport errors, non-200 statuses, and bodies
// missing the expected shape.
func (c *CompletionClient) Complete(ctx context.Context, messages []ChatMessage) string {
	request := completionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	var response completionResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&response).
		Post("/chat/completions")

	if err != nil {
		c.logger.Error("completion call failed", zap.Error(err))
		return msgServiceUnavailable
	}

	if resp.StatusCode() != 200 {
		c.logger.Error("completion endpoint returned error",
			zap.Int("status", resp.StatusCode()),
		)
		return fmt.Sprintf("API Error %d: %s", resp.StatusCode(), truncate(resp.String(), 300))
	}

	if len(response.Choices) == 0 || response.Choices[0].Message.Content == "" {
		c.logger.Error("completion response missing choices")
		return msgUnexpectedFormat
	}
	return response.Choices[0].Message.Content
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
