package api

import (
	"context"
	"fmt"
	"time"

	"photo-recipe/internal/api/handlers/health"
	recipeHandler "photo-recipe/internal/api/handlers/recipe"
	"photo-recipe/internal/api/middleware"
	"photo-recipe/internal/core/ai/service"
	"photo-recipe/internal/core/detector"
	"photo-recipe/internal/core/image"
	recipeService "photo-recipe/internal/core/recipe"
	"photo-recipe/internal/infrastructure/config"
	"photo-recipe/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 進程內共用的偵測與生成資源
type Dependencies struct {
	Detector  recipeService.Detector
	Generator recipeService.Generator
	closers   []func() error
}

// NewDependencies 依設定建立偵測器與生成服務
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	images := image.NewService(cfg.Image.MaxSizeBytes, cfg.Image.MaxPixels)

	model, err := detector.NewModel(ctx, cfg.Detector)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize detector: %w", err)
	}

	p, err := service.NewProvider(cfg.Generation)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generation provider: %w", err)
	}
	aiService := service.NewService(p, cfg.Generation.MaxTokens, cfg.Generation.Timeout)

	common.LogInfo("Services initialized",
		zap.String("detector", model.Name()),
		zap.Float64("confidence", cfg.Detector.Confidence),
		zap.String("provider", cfg.Generation.Provider),
		zap.String("model", aiService.Model()),
		zap.String("api_key", config.MaskAPIKey(cfg.Generation.APIKey)),
	)

	return &Dependencies{
		Detector:  detector.NewAdapter(model, images, cfg.Detector.Confidence),
		Generator: aiService,
		closers:   []func() error{aiService.Close},
	}, nil
}

// Close 釋放連線
func (d *Dependencies) Close() error {
	var firstErr error
	for _, closeFn := range d.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	healthHandler := health.NewHandler(cfg)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	h := recipeHandler.NewHandler(recipeService.NewPipeline(deps.Detector, deps.Generator))
	registerRecipeRoutes(&router.RouterGroup, h)
	registerRecipeRoutes(router.Group("/api/v1"), h)

	common.LogInfo("Router setup completed successfully",
		zap.Strings("cors_origins", cfg.CORS.AllowOrigins),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}

func registerRecipeRoutes(group *gin.RouterGroup, h *recipeHandler.Handler) {
	group.POST("/detect-and-suggest", h.HandleDetectAndSuggest)
	group.POST("/generate-recipe", h.HandleGenerateRecipe)
}
