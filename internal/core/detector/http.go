package detector

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"photo-recipe/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// HTTPModel 透過 HTTP 呼叫 YOLO 推論服務
type HTTPModel struct {
	client *resty.Client
}

type predictResponse struct {
	Detections []struct {
		Label      string     `json:"label"`
		Confidence float64    `json:"confidence"`
		Box        [4]float64 `json:"box"`
	} `json:"detections"`
}

// NewHTTPModel 創建 HTTP 偵測後端
func NewHTTPModel(endpoint string, timeout time.Duration) *HTTPModel {
	client := resty.New().
		SetBaseURL(endpoint).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPModel{client: client}
}

// Name 後端名稱
func (m *HTTPModel) Name() string {
	return "http"
}

// Predict 上傳圖片到 /predict
func (m *HTTPModel) Predict(ctx context.Context, jpeg []byte, minConfidence float64) ([]Detection, error) {
	resp, err := m.client.R().
		SetContext(ctx).
		SetFileReader("image", "upload.jpg", bytes.NewReader(jpeg)).
		SetFormData(map[string]string{
			"conf": strconv.FormatFloat(minConfidence, 'f', -1, 64),
		}).
		Post("/predict")
	if err != nil {
		return nil, fmt.Errorf("failed to send request to detector: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("detector returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var out predictResponse
	if err := common.ParseJSONBytes(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("failed to parse detector response: %w", err)
	}

	detections := make([]Detection, 0, len(out.Detections))
	for _, d := range out.Detections {
		detections = append(detections, Detection{
			Label:      d.Label,
			Confidence: d.Confidence,
			Box:        d.Box,
		})
	}
	return detections, nil
}
