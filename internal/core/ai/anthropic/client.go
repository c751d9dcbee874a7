package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"photo-recipe/internal/core/ai/provider"

	anthropicsdk "github.com/liushuangls/go-anthropic/v2"
)

// Client Anthropic Messages API 客戶端
type Client struct {
	client     *anthropicsdk.Client
	httpClient *http.Client
	config     provider.Config
}

// NewClient 創建 Anthropic 客戶端
func NewClient(cfg provider.Config) *Client {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	opts := []anthropicsdk.ClientOption{anthropicsdk.WithHTTPClient(httpClient)}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropicsdk.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))
	}

	return &Client{
		client:     anthropicsdk.NewClient(cfg.APIKey, opts...),
		httpClient: httpClient,
		config:     cfg,
	}
}

// GetModel 獲取模型名稱
func (c *Client) GetModel() string {
	return c.config.Model
}

// Generate 呼叫 Messages API。system 訊息改放到 System 欄位
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.config.MaxTokens
	}

	var system []string
	messages := make([]anthropicsdk.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case provider.RoleSystem:
			system = append(system, m.Content)
		case provider.RoleAssistant:
			messages = append(messages, anthropicsdk.NewAssistantTextMessage(m.Content))
		default:
			messages = append(messages, anthropicsdk.NewUserTextMessage(m.Content))
		}
	}

	resp, err := c.client.CreateMessages(ctx, anthropicsdk.MessagesRequest{
		Model:     anthropicsdk.Model(c.config.Model),
		System:    strings.Join(system, "\n"),
		Messages:  messages,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send request to Anthropic: %w", err)
	}

	var text strings.Builder
	for _, content := range resp.Content {
		if content.Type == anthropicsdk.MessagesContentTypeText {
			text.WriteString(content.GetText())
		}
	}

	return &provider.Response{
		Content: text.String(),
		Usage: provider.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
