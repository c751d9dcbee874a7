package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"photo-recipe/internal/core/ai/anthropic"
	"photo-recipe/internal/core/ai/cohere"
	"photo-recipe/internal/core/ai/openrouter"
	"photo-recipe/internal/core/ai/provider"
	"photo-recipe/internal/infrastructure/config"
	"photo-recipe/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrEmptyResponse 提供者回傳空白內容
var ErrEmptyResponse = errors.New("empty response from provider")

// Service AI 服務
type Service struct {
	provider  provider.Provider
	maxTokens int
	timeout   time.Duration
}

// NewProvider 依設定建立文字生成提供者
func NewProvider(cfg config.GenerationConfig) (provider.Provider, error) {
	providerCfg := provider.Config{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		BaseURL:   cfg.BaseURL,
		MaxTokens: cfg.MaxTokens,
		Timeout:   cfg.Timeout,
	}

	switch cfg.Provider {
	case config.ProviderCohere:
		return cohere.NewClient(providerCfg), nil
	case config.ProviderOpenRouter:
		return openrouter.NewClient(providerCfg), nil
	case config.ProviderAnthropic:
		return anthropic.NewClient(providerCfg), nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
}

// NewService 創建 AI 服務
func NewService(p provider.Provider, maxTokens int, timeout time.Duration) *Service {
	return &Service{
		provider:  p,
		maxTokens: maxTokens,
		timeout:   timeout,
	}
}

// Complete 送出單一提示詞並回傳原始文字，失敗不重試
func (s *Service) Complete(ctx context.Context, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	model := s.provider.GetModel()
	common.LogDebug("Sending prompt to provider",
		zap.String("model", model),
		zap.Int("prompt_length", len(prompt)),
	)

	start := time.Now()
	resp, err := s.provider.Generate(ctx, provider.NewUserRequest(prompt, s.maxTokens))
	if err == nil && strings.TrimSpace(resp.Content) == "" {
		err = ErrEmptyResponse
	}
	common.LogAICall(model, time.Since(start), err)
	if err != nil {
		return "", err
	}

	common.LogDebug("Provider usage",
		zap.String("model", model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	return resp.Content, nil
}

// Model 當前模型名稱
func (s *Service) Model() string {
	return s.provider.GetModel()
}

// Close 關閉提供者
func (s *Service) Close() error {
	return s.provider.Close()
}
