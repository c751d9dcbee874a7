package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	_ "golang.org/x/image/webp" // 支援 WebP

	"photo-recipe/internal/pkg/common"

	"go.uber.org/zap"
)

// jpegQuality 轉交偵測模型時的 JPEG 品質
const jpegQuality = 90

// DefaultMaxPixels 未指定時允許的最大像素數
const DefaultMaxPixels = 50_000_000

// Service 圖片處理服務
type Service struct {
	maxSizeBytes int64
	maxPixels    int64
}

// NewService 創建新的圖片處理服務，maxPixels 非正值時使用 DefaultMaxPixels
func NewService(maxSizeBytes, maxPixels int64) *Service {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Service{
		maxSizeBytes: maxSizeBytes,
		maxPixels:    maxPixels,
	}
}

// DecodeRGB 將上傳的圖片位元組解碼為 RGB 點陣，任何失敗都回傳 InvalidImageError
func (s *Service) DecodeRGB(data []byte) (*image.RGBA, string, error) {
	if len(data) == 0 {
		return nil, "", common.NewInvalidImageError(errors.New("image data is empty"))
	}

	if s.maxSizeBytes > 0 && int64(len(data)) > s.maxSizeBytes {
		return nil, "", common.NewInvalidImageError(
			fmt.Errorf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes))
	}

	// 先讀標頭，避免宣告超大尺寸的圖片在解碼時耗盡記憶體
	header, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", common.NewInvalidImageError(fmt.Errorf("failed to read image header: %w", err))
	}
	if pixels := int64(header.Width) * int64(header.Height); pixels > s.maxPixels {
		return nil, "", common.NewInvalidImageError(
			fmt.Errorf("image dimensions %dx%d exceed maximum of %d pixels", header.Width, header.Height, s.maxPixels))
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", common.NewInvalidImageError(fmt.Errorf("failed to decode image: %w", err))
	}

	if !isSupportedFormat(format) {
		return nil, "", common.NewInvalidImageError(fmt.Errorf("unsupported image format: %s", format))
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, "", common.NewInvalidImageError(errors.New("image has no pixels"))
	}

	rgb := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgb, rgb.Bounds(), img, bounds.Min, draw.Src)

	return rgb, format, nil
}

// NormalizeJPEG 解碼上傳圖片並重新編碼為 RGB JPEG，供偵測模型使用
func (s *Service) NormalizeJPEG(data []byte) ([]byte, error) {
	rgb, format, err := s.DecodeRGB(data)
	if err != nil {
		common.LogImageProcessing("warn",
			zap.Int("size_bytes", len(data)),
			zap.Error(err),
		)
		return nil, err
	}

	// JPEG 編碼時會捨棄 alpha 通道
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rgb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image as JPEG: %w", err)
	}

	common.LogImageProcessing("info",
		zap.String("format", format),
		zap.Int("width", rgb.Bounds().Dx()),
		zap.Int("height", rgb.Bounds().Dy()),
		zap.Int("size_bytes", len(data)),
	)

	return buf.Bytes(), nil
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	supportedFormats := map[string]bool{
		"jpeg": true,
		"png":  true,
		"gif":  true,
		"webp": true,
	}
	return supportedFormats[format]
}
