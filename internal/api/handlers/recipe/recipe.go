package recipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	recipeService "photo-recipe/internal/core/recipe"
	"photo-recipe/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// imageField 上傳圖片的表單欄位
const imageField = "image"

// Service 食譜流程
type Service interface {
	DetectAndSuggest(ctx context.Context, image []byte) (*recipeService.DetectionResult, error)
	GenerateRecipe(ctx context.Context, req recipeService.GenerateRequest) string
}

// Handler 食譜處理器
type Handler struct {
	service Service
}

// DetectAndSuggestResponse 偵測與推薦回應
type DetectAndSuggestResponse struct {
	Detected    []string `json:"detected"`
	Suggestions []string `json:"suggestions"`
}

// GenerateRecipeRequest 生成食譜請求，菜名可以是空字串
type GenerateRecipeRequest struct {
	RecipeName  string   `json:"recipe_name"`
	Ingredients []string `json:"ingredients" binding:"required"`
}

// GenerateRecipeResponse 生成食譜回應
type GenerateRecipeResponse struct {
	Recipe string `json:"recipe"`
}

// NewHandler 創建食譜處理器
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// HandleDetectAndSuggest 處理 /detect-and-suggest
func (h *Handler) HandleDetectAndSuggest(c *gin.Context) {
	requestID := getRequestID(c)

	data, err := readUpload(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.WriteErrorResponse(c, common.ToCustomError(err))
			return
		}
		common.LogWarn("缺少圖片欄位",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		common.WriteErrorResponse(c, common.NewError(
			common.ErrCodeInvalidRequest,
			"Image file is required",
			http.StatusBadRequest,
			err,
		))
		return
	}

	common.LogDebug("開始處理食材偵測請求",
		zap.String("request_id", requestID),
		zap.Int("image_size", len(data)),
	)

	result, err := h.service.DetectAndSuggest(c.Request.Context(), data)
	if err != nil {
		customErr := common.ToCustomError(err)
		common.LogError("食材偵測失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("code", customErr.Code),
		)
		common.WriteErrorResponse(c, customErr)
		return
	}

	common.LogInfo("食材偵測完成",
		zap.String("request_id", requestID),
		zap.Strings("detected", result.Detected),
		zap.Int("suggestions_count", len(result.Suggestions)),
	)

	c.JSON(http.StatusOK, DetectAndSuggestResponse{
		Detected:    nonNil(result.Detected),
		Suggestions: nonNil(result.Suggestions),
	})
}

// HandleGenerateRecipe 處理 /generate-recipe
func (h *Handler) HandleGenerateRecipe(c *gin.Context) {
	requestID := getRequestID(c)

	var req GenerateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.WriteErrorResponse(c, common.ToCustomError(err))
			return
		}
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		common.WriteErrorResponse(c, common.NewError(
			common.ErrCodeInvalidRequest,
			"Invalid request format",
			http.StatusBadRequest,
			err,
		))
		return
	}

	recipe := h.service.GenerateRecipe(c.Request.Context(), recipeService.GenerateRequest{
		RecipeName:  req.RecipeName,
		Ingredients: req.Ingredients,
	})

	common.LogInfo("食譜生成完成",
		zap.String("request_id", requestID),
		zap.String("recipe_name", req.RecipeName),
		zap.Bool("empty", recipe == ""),
	)

	c.JSON(http.StatusOK, GenerateRecipeResponse{Recipe: recipe})
}

// readUpload 讀取 multipart 圖片內容
func readUpload(c *gin.Context) ([]byte, error) {
	file, err := c.FormFile(imageField)
	if err != nil {
		return nil, err
	}

	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	return io.ReadAll(f)
}

func getRequestID(c *gin.Context) string {
	if id := requestid.Get(c); id != "" {
		return id
	}
	id := common.GenerateUUID()
	c.Header("X-Request-ID", id)
	return id
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
