package detector

import (
	"context"
	"fmt"
	"time"

	"photo-recipe/internal/core/image"
	"photo-recipe/internal/core/recipe"
	"photo-recipe/internal/infrastructure/config"
	"photo-recipe/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultConfidence 保留偵測框所需的最低信心分數
const DefaultConfidence = 0.4

// Detection 模型回傳的單一偵測框
type Detection struct {
	Label      string
	Confidence float64
	Box        [4]float64 // x1, y1, x2, y2
}

// Model 物件偵測模型
type Model interface {
	// Predict 對 JPEG 圖片執行偵測，minConfidence 會轉交給後端作為預先過濾
	Predict(ctx context.Context, jpeg []byte, minConfidence float64) ([]Detection, error)

	// Name 後端名稱
	Name() string
}

// Adapter 將圖片轉為去重後的食材集合
type Adapter struct {
	model      Model
	images     *image.Service
	confidence float64
}

// NewAdapter 創建偵測轉接器，confidence 非正值時使用 DefaultConfidence
func NewAdapter(model Model, images *image.Service, confidence float64) *Adapter {
	if confidence <= 0 {
		confidence = DefaultConfidence
	}
	return &Adapter{
		model:      model,
		images:     images,
		confidence: confidence,
	}
}

// Detect 解碼圖片、執行偵測並彙整標籤
func (a *Adapter) Detect(ctx context.Context, data []byte) (*recipe.IngredientSet, error) {
	jpeg, err := a.images.NormalizeJPEG(data)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	detections, err := a.model.Predict(ctx, jpeg, a.confidence)
	if err != nil {
		common.LogError("Detection model call failed",
			zap.String("backend", a.model.Name()),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return nil, common.NewDetectionFailure(a.model.Name(), err)
	}

	set := Aggregate(detections, a.confidence)

	common.LogInfo("Ingredients detected",
		zap.String("backend", a.model.Name()),
		zap.Int("boxes", len(detections)),
		zap.Int("ingredients_count", set.Len()),
		zap.Duration("latency", time.Since(start)),
	)

	return set, nil
}

// Aggregate 只保留信心分數不低於門檻的偵測框，回傳其標籤的聯集
func Aggregate(detections []Detection, minConfidence float64) *recipe.IngredientSet {
	set := recipe.NewIngredientSet()
	for _, d := range detections {
		if d.Confidence < minConfidence {
			continue
		}
		set.Add(d.Label)
	}
	return set
}

// NewModel 依設定建立偵測後端
func NewModel(ctx context.Context, cfg config.DetectorConfig) (Model, error) {
	switch cfg.Backend {
	case config.DetectorBackendHTTP:
		return NewHTTPModel(cfg.Endpoint, cfg.Timeout), nil
	case config.DetectorBackendRekognition:
		return NewRekognitionModel(ctx, cfg.AWSRegion)
	default:
		return nil, fmt.Errorf("unknown detector backend %q", cfg.Backend)
	}
}
