package detector

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// rekognitionAPI DetectLabels 所需的最小介面
type rekognitionAPI interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// RekognitionModel 以 AWS Rekognition 作為偵測後端
type RekognitionModel struct {
	client rekognitionAPI
}

// NewRekognitionModel 使用預設憑證鏈建立 Rekognition 客戶端
func NewRekognitionModel(ctx context.Context, region string) (*RekognitionModel, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return &RekognitionModel{client: rekognition.NewFromConfig(cfg)}, nil
}

// Name 後端名稱
func (m *RekognitionModel) Name() string {
	return "rekognition"
}

// Predict 呼叫 DetectLabels。Rekognition 的信心分數為 0-100，這裡換算為 0-1。
// 有實例框的標籤每個框算一筆，沒有框的標籤以標籤本身的分數算一筆。
func (m *RekognitionModel) Predict(ctx context.Context, jpeg []byte, minConfidence float64) ([]Detection, error) {
	out, err := m.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: jpeg},
		MinConfidence: aws.Float32(float32(minConfidence * 100)),
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition DetectLabels: %w", err)
	}

	var detections []Detection
	for _, label := range out.Labels {
		name := aws.ToString(label.Name)
		if len(label.Instances) == 0 {
			detections = append(detections, Detection{
				Label:      name,
				Confidence: float64(aws.ToFloat32(label.Confidence)) / 100,
			})
			continue
		}
		for _, inst := range label.Instances {
			detections = append(detections, Detection{
				Label:      name,
				Confidence: float64(aws.ToFloat32(inst.Confidence)) / 100,
				Box:        boundingBox(inst.BoundingBox),
			})
		}
	}
	return detections, nil
}

// boundingBox 將 Rekognition 的 left/top/width/height 比例轉為 x1, y1, x2, y2
func boundingBox(b *types.BoundingBox) [4]float64 {
	if b == nil {
		return [4]float64{}
	}
	left := float64(aws.ToFloat32(b.Left))
	top := float64(aws.ToFloat32(b.Top))
	return [4]float64{
		left,
		top,
		left + float64(aws.ToFloat32(b.Width)),
		top + float64(aws.ToFloat32(b.Height)),
	}
}
