package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"error"`             // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// 預定義錯誤代碼
const (
	ErrCodeInvalidRequest   = "INVALID_REQUEST"   // 400
	ErrCodeInvalidImage     = "INVALID_IMAGE"     // 400
	ErrCodeRequestTooLarge  = "REQUEST_TOO_LARGE" // 413
	ErrCodeInternalError    = "INTERNAL_ERROR"    // 500
	ErrCodeDetectionFailed  = "DETECTION_FAILED"  // 502
	ErrCodeRequestTimeout   = "REQUEST_TIMEOUT"   // 504
	ErrCodeGenerationFailed = "GENERATION_FAILED" // 不對外回傳
)

// InvalidImageError 上傳內容無法解碼為圖片
type InvalidImageError struct {
	Err error
}

func (e *InvalidImageError) Error() string {
	return fmt.Sprintf("invalid image: %v", e.Err)
}

func (e *InvalidImageError) Unwrap() error {
	return e.Err
}

// NewInvalidImageError 包裝圖片解碼錯誤
func NewInvalidImageError(err error) error {
	return &InvalidImageError{Err: err}
}

// DetectionFailure 偵測模型呼叫失敗
type DetectionFailure struct {
	Backend string
	Err     error
}

func (e *DetectionFailure) Error() string {
	return fmt.Sprintf("detection failed (%s): %v", e.Backend, e.Err)
}

func (e *DetectionFailure) Unwrap() error {
	return e.Err
}

// NewDetectionFailure 包裝偵測後端錯誤
func NewDetectionFailure(backend string, err error) error {
	return &DetectionFailure{Backend: backend, Err: err}
}

// GenerationFailure 文字生成或解析失敗，只在服務內部流轉，不回傳給呼叫端
type GenerationFailure struct {
	Stage string
	Err   error
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Stage, e.Err)
}

func (e *GenerationFailure) Unwrap() error {
	return e.Err
}

// NewGenerationFailure 包裝生成階段錯誤
func NewGenerationFailure(stage string, err error) *GenerationFailure {
	return &GenerationFailure{Stage: stage, Err: err}
}

// ToCustomError 將內部錯誤映射為對外的 HTTP 錯誤
func ToCustomError(err error) *CustomError {
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom
	}

	var invalidImage *InvalidImageError
	if errors.As(err, &invalidImage) {
		return NewError(ErrCodeInvalidImage, "Invalid image", http.StatusBadRequest, err)
	}

	var detection *DetectionFailure
	if errors.As(err, &detection) {
		return NewError(ErrCodeDetectionFailed, "Failed to detect ingredients", http.StatusBadGateway, err)
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return NewError(ErrCodeRequestTooLarge, "Request body too large", http.StatusRequestEntityTooLarge, err)
	}

	return NewError(ErrCodeInternalError, "Internal server error", http.StatusInternalServerError, err)
}
