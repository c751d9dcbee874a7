package recipe

import (
	"context"
	"fmt"

	"photo-recipe/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	stageSuggestions = "suggestions"
	stageRecipe      = "recipe"
)

// Detector 將圖片轉為食材集合
type Detector interface {
	Detect(ctx context.Context, image []byte) (*IngredientSet, error)
}

// Generator 文字生成服務，每次呼叫只嘗試一次
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Pipeline 偵測與生成流程
type Pipeline struct {
	detector  Detector
	generator Generator
}

// NewPipeline 創建流程
func NewPipeline(detector Detector, generator Generator) *Pipeline {
	return &Pipeline{
		detector:  detector,
		generator: generator,
	}
}

// DetectAndSuggest 偵測圖片中的食材並推薦食譜標題。
// 偵測失敗會回傳錯誤；生成失敗只記錄日誌，並回傳空的推薦清單。
func (p *Pipeline) DetectAndSuggest(ctx context.Context, image []byte) (*DetectionResult, error) {
	set, err := p.detector.Detect(ctx, image)
	if err != nil {
		return nil, err
	}

	detected := set.Labels()
	if len(detected) == 0 {
		common.LogInfo("No ingredients detected, skipping suggestions")
		return &DetectionResult{Detected: []string{}, Suggestions: []string{}}, nil
	}

	result := p.suggest(ctx, detected)
	if result.Failed() {
		common.LogWarn("Suggestion generation failed, returning detected ingredients only",
			zap.Error(result.Err),
			zap.Strings("detected", detected),
		)
	}

	return &DetectionResult{
		Detected:    detected,
		Suggestions: result.OrDefault([]string{}),
	}, nil
}

// GenerateRecipe 為指定菜名生成完整食譜，失敗時回傳空字串
func (p *Pipeline) GenerateRecipe(ctx context.Context, req GenerateRequest) string {
	result := p.recipe(ctx, req)
	if result.Failed() {
		common.LogWarn("Recipe generation failed, returning empty recipe",
			zap.Error(result.Err),
			zap.String("recipe_name", req.RecipeName),
			zap.Int("ingredients_count", len(req.Ingredients)),
		)
	}
	return result.OrDefault("")
}

func (p *Pipeline) suggest(ctx context.Context, ingredients []string) Result[[]string] {
	raw, err := p.complete(ctx, BuildSuggestionPrompt(ingredients))
	if err != nil {
		return Fail[[]string](stageSuggestions, err)
	}

	titles := ParseSuggestions(raw)
	common.LogDebug("Parsed recipe suggestions",
		zap.Int("suggestions_count", len(titles)),
		zap.Int("response_length", len(raw)),
	)
	return Ok(titles)
}

func (p *Pipeline) recipe(ctx context.Context, req GenerateRequest) Result[string] {
	raw, err := p.complete(ctx, BuildRecipePrompt(req.RecipeName, req.Ingredients))
	if err != nil {
		return Fail[string](stageRecipe, err)
	}
	return Ok(ParseRecipe(raw))
}

// complete 呼叫生成服務，並把 panic 轉為錯誤
func (p *Pipeline) complete(ctx context.Context, prompt string) (raw string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panicked: %v", r)
		}
	}()
	return p.generator.Complete(ctx, prompt)
}
