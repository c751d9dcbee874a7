package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"photo-recipe/internal/core/ai/provider"
	"photo-recipe/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

// Client OpenRouter API 客戶端
type Client struct {
	client *resty.Client
	config provider.Config
}

type completionRequest struct {
	Model     string             `json:"model"`
	Messages  []provider.Message `json:"messages"`
	MaxTokens int                `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message provider.Message `json:"message"`
	} `json:"choices"`
	Usage provider.Usage `json:"usage"`
}

// NewClient 創建 OpenRouter 客戶端
func NewClient(cfg provider.Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("X-Title", "Photo Recipe")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{client: client, config: cfg}
}

// GetModel 獲取模型名稱
func (c *Client) GetModel() string {
	return c.config.Model
}

// Generate 呼叫 /chat/completions
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.config.MaxTokens
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(completionRequest{
			Model:     c.config.Model,
			Messages:  req.Messages,
			MaxTokens: maxTokens,
		}).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("OpenRouter API returned error: %s", resp.String())
	}

	var result completionResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no choices in OpenRouter response")
	}

	return &provider.Response{
		Content: result.Choices[0].Message.Content,
		Usage:   result.Usage,
	}, nil
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
