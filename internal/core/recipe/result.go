package recipe

import "photo-recipe/internal/pkg/common"

// Result 生成階段的結果；失敗原因保留在 Err 中供日誌使用
type Result[T any] struct {
	Value T
	Err   *common.GenerationFailure
}

// Ok 成功結果
func Ok[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

// Fail 失敗結果
func Fail[T any](stage string, err error) Result[T] {
	return Result[T]{Err: common.NewGenerationFailure(stage, err)}
}

// Failed 是否失敗
func (r Result[T]) Failed() bool {
	return r.Err != nil
}

// OrDefault 失敗時回傳預設值
func (r Result[T]) OrDefault(def T) T {
	if r.Err != nil {
		return def
	}
	return r.Value
}
