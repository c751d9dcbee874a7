package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"photo-recipe/internal/core/ai/anthropic"
	"photo-recipe/internal/core/ai/cohere"
	"photo-recipe/internal/core/ai/openrouter"
	"photo-recipe/internal/core/ai/provider"
	"photo-recipe/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*provider.Response)
	return resp, args.Error(1)
}

func (m *mockProvider) GetModel() string { return "test-model" }

func (m *mockProvider) Close() error { return nil }

func TestComplete(t *testing.T) {
	p := new(mockProvider)
	p.On("Generate", mock.Anything, provider.NewUserRequest("list recipes", 500)).
		Return(&provider.Response{Content: "1. Soup"}, nil).Once()

	out, err := NewService(p, 500, time.Second).Complete(context.Background(), "list recipes")
	require.NoError(t, err)
	assert.Equal(t, "1. Soup", out)
	p.AssertExpectations(t)
}

func TestCompleteErrors(t *testing.T) {
	tests := []struct {
		name    string
		resp    *provider.Response
		err     error
		wantErr error
	}{
		{name: "provider error", err: errors.New("401 unauthorized")},
		{name: "blank content", resp: &provider.Response{Content: "  \n"}, wantErr: ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := new(mockProvider)
			p.On("Generate", mock.Anything, mock.Anything).Return(tt.resp, tt.err).Once()

			_, err := NewService(p, 100, 0).Complete(context.Background(), "prompt")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			// 只嘗試一次
			p.AssertNumberOfCalls(t, "Generate", 1)
		})
	}
}

func TestCompleteAppliesTimeout(t *testing.T) {
	p := new(mockProvider)
	p.On("Generate", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.Anything).Return(&provider.Response{Content: "ok"}, nil)

	_, err := NewService(p, 100, time.Minute).Complete(context.Background(), "prompt")
	require.NoError(t, err)
}

func TestNewProvider(t *testing.T) {
	base := config.GenerationConfig{APIKey: "key", Model: "m", MaxTokens: 100}

	tests := []struct {
		provider string
		want     interface{}
	}{
		{config.ProviderCohere, &cohere.Client{}},
		{config.ProviderOpenRouter, &openrouter.Client{}},
		{config.ProviderAnthropic, &anthropic.Client{}},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := base
			cfg.Provider = tt.provider
			p, err := NewProvider(cfg)
			require.NoError(t, err)
			assert.IsType(t, tt.want, p)
			assert.Equal(t, "m", p.GetModel())
		})
	}

	_, err := NewProvider(config.GenerationConfig{Provider: "llama.cpp"})
	assert.Error(t, err)
}
