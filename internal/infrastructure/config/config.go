package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 偵測後端
const (
	DetectorBackendHTTP        = "http"
	DetectorBackendRekognition = "rekognition"
)

// 文字生成提供者
const (
	ProviderCohere     = "cohere"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
)

// 各提供者未指定模型時使用的預設模型
var defaultModels = map[string]string{
	ProviderCohere:     "command-a-03-2025",
	ProviderOpenRouter: "meta-llama/llama-3.3-70b-instruct:free",
	ProviderAnthropic:  "claude-3-5-haiku-latest",
}

// Config 應用配置
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Detector   DetectorConfig   `mapstructure:"detector"`
	Generation GenerationConfig `mapstructure:"generation"`
	Image      ImageConfig      `mapstructure:"image"`
	LogLevel   string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// CORSConfig 跨來源設定
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DetectorConfig 物件偵測設定
type DetectorConfig struct {
	Backend    string        `mapstructure:"backend"`
	Endpoint   string        `mapstructure:"endpoint"`
	Confidence float64       `mapstructure:"confidence"`
	Timeout    time.Duration `mapstructure:"timeout"`
	AWSRegion  string        `mapstructure:"aws_region"`
}

// GenerationConfig 文字生成設定
type GenerationConfig struct {
	Provider  string        `mapstructure:"provider"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	BaseURL   string        `mapstructure:"base_url"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// ImageConfig 圖片配置
type ImageConfig struct {
	MaxSizeBytes int64 `mapstructure:"max_size_bytes"`
	MaxPixels    int64 `mapstructure:"max_pixels"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 不存在時直接使用環境變數與預設值
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("cors.allow_origins", "CORS_ALLOW_ORIGINS")
	_ = v.BindEnv("detector.backend", "DETECTOR_BACKEND")
	_ = v.BindEnv("detector.endpoint", "DETECTOR_ENDPOINT")
	_ = v.BindEnv("detector.confidence", "DETECTOR_CONFIDENCE")
	_ = v.BindEnv("detector.aws_region", "AWS_REGION")
	_ = v.BindEnv("generation.provider", "GENERATION_PROVIDER")
	_ = v.BindEnv("generation.model", "GENERATION_MODEL")
	_ = v.BindEnv("generation.api_key", "GENERATION_API_KEY")
	_ = v.BindEnv("generation.max_tokens", "MODEL_MAX_TOKENS")
	_ = v.BindEnv("image.max_pixels", "IMAGE_MAX_PIXELS")
	_ = v.BindEnv("keys.cohere", "COHERE_API_KEY")
	_ = v.BindEnv("keys.openrouter", "OPENROUTER_API_KEY")
	_ = v.BindEnv("keys.anthropic", "ANTHROPIC_API_KEY")

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	normalize(&config)

	// 未設定通用金鑰時改用提供者專屬的環境變數
	if config.Generation.APIKey == "" {
		config.Generation.APIKey = v.GetString("keys." + config.Generation.Provider)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "photo-recipe")
	v.SetDefault("log_level", "info")

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "110s")
	v.SetDefault("server.max_body_bytes", 10<<20)

	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000"})

	v.SetDefault("detector.backend", DetectorBackendHTTP)
	v.SetDefault("detector.endpoint", "http://localhost:9000")
	v.SetDefault("detector.confidence", 0.4)
	v.SetDefault("detector.timeout", "30s")

	v.SetDefault("generation.provider", ProviderCohere)
	v.SetDefault("generation.model", "")
	v.SetDefault("generation.base_url", "")
	v.SetDefault("generation.max_tokens", 1000)
	v.SetDefault("generation.timeout", "60s")

	v.SetDefault("image.max_size_bytes", 10*1024*1024) // 10MB
	v.SetDefault("image.max_pixels", 50_000_000)
}

// normalize 整理大小寫、空白與依提供者決定的預設模型
func normalize(config *Config) {
	config.Detector.Backend = strings.ToLower(strings.TrimSpace(config.Detector.Backend))
	config.Detector.Endpoint = strings.TrimRight(strings.TrimSpace(config.Detector.Endpoint), "/")
	config.Generation.Provider = strings.ToLower(strings.TrimSpace(config.Generation.Provider))

	if config.Generation.Model == "" {
		config.Generation.Model = defaultModels[config.Generation.Provider]
	}

	origins := make([]string, 0, len(config.CORS.AllowOrigins))
	for _, origin := range config.CORS.AllowOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	config.CORS.AllowOrigins = origins
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}
	if config.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid server max body bytes")
	}
	if len(config.CORS.AllowOrigins) == 0 {
		return fmt.Errorf("at least one cors origin is required")
	}

	switch config.Detector.Backend {
	case DetectorBackendHTTP:
		if config.Detector.Endpoint == "" {
			return fmt.Errorf("detector endpoint is required for the http backend")
		}
	case DetectorBackendRekognition:
		if config.Detector.AWSRegion == "" {
			return fmt.Errorf("aws region is required for the rekognition backend")
		}
	default:
		return fmt.Errorf("unknown detector backend %q", config.Detector.Backend)
	}
	if config.Detector.Confidence <= 0 || config.Detector.Confidence > 1 {
		return fmt.Errorf("detector confidence must be in (0, 1], got %v", config.Detector.Confidence)
	}

	if _, ok := defaultModels[config.Generation.Provider]; !ok {
		return fmt.Errorf("unknown generation provider %q", config.Generation.Provider)
	}
	if config.Generation.APIKey == "" {
		return fmt.Errorf("api key is required for generation provider %q", config.Generation.Provider)
	}
	if config.Generation.MaxTokens <= 0 {
		return fmt.Errorf("invalid generation max tokens")
	}

	if config.Image.MaxSizeBytes <= 0 {
		return fmt.Errorf("invalid image max size")
	}
	if config.Image.MaxPixels <= 0 {
		return fmt.Errorf("invalid image max pixels")
	}

	return nil
}
