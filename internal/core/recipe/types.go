package recipe

import "strings"

// IngredientSet 去重後的偵測標籤集合，依首次加入順序列舉
type IngredientSet struct {
	seen  map[string]struct{}
	order []string
}

// NewIngredientSet 創建食材集合
func NewIngredientSet(labels ...string) *IngredientSet {
	s := &IngredientSet{seen: make(map[string]struct{}, len(labels))}
	for _, label := range labels {
		s.Add(label)
	}
	return s
}

// Add 加入一個標籤，空白標籤與重複標籤會被忽略；回傳是否為新標籤
func (s *IngredientSet) Add(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[label]; ok {
		return false
	}
	s.seen[label] = struct{}{}
	s.order = append(s.order, label)
	return true
}

// Contains 是否包含標籤
func (s *IngredientSet) Contains(label string) bool {
	_, ok := s.seen[strings.TrimSpace(label)]
	return ok
}

// Len 標籤數量
func (s *IngredientSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Labels 回傳標籤副本，永遠不為 nil
func (s *IngredientSet) Labels() []string {
	if s == nil {
		return []string{}
	}
	labels := make([]string, len(s.order))
	copy(labels, s.order)
	return labels
}

// DetectionResult 偵測與推薦結果
type DetectionResult struct {
	Detected    []string
	Suggestions []string
}

// GenerateRequest 由呼叫端提供的菜名與食材
type GenerateRequest struct {
	RecipeName  string
	Ingredients []string
}
