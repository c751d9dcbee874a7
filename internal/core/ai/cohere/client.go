package cohere

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"photo-recipe/internal/core/ai/provider"
	"photo-recipe/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.cohere.com/v2"

// Client Cohere Chat API 客戶端
type Client struct {
	client *resty.Client
	config provider.Config
}

type chatRequest struct {
	Model     string             `json:"model"`
	Messages  []provider.Message `json:"messages"`
	MaxTokens int                `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	ID           string `json:"id"`
	FinishReason string `json:"finish_reason"`
	Message      struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
	Usage struct {
		BilledUnits struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"billed_units"`
	} `json:"usage"`
}

// NewClient 創建 Cohere 客戶端
func NewClient(cfg provider.Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(cfg.APIKey).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{client: client, config: cfg}
}

// GetModel 獲取模型名稱
func (c *Client) GetModel() string {
	return c.config.Model
}

// Generate 呼叫 /chat
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.config.MaxTokens
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:     c.config.Model,
			Messages:  req.Messages,
			MaxTokens: maxTokens,
		}).
		Post("/chat")
	if err != nil {
		return nil, fmt.Errorf("failed to send request to Cohere: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("Cohere API returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var result chatResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse Cohere response: %w", err)
	}

	var text strings.Builder
	for _, block := range result.Message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	in, out := result.Usage.BilledUnits.InputTokens, result.Usage.BilledUnits.OutputTokens
	return &provider.Response{
		Content: text.String(),
		Usage: provider.Usage{
			PromptTokens:     in,
			CompletionTokens: out,
			TotalTokens:      in + out,
		},
	}, nil
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
