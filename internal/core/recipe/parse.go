package recipe

import "strings"

// titleMarkerCutset 沒有 ". " 分隔時，從行首剝除的編號與項目符號字元
const titleMarkerCutset = "0123456789.- "

// ParseSuggestions 將生成服務回覆的清單轉為最多 4 個標題，保持原順序。
// 剝除標記後為空的標題仍會保留。
func ParseSuggestions(raw string) []string {
	titles := make([]string, 0, SuggestionCount)
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		titles = append(titles, normalizeTitleLine(line))
	}

	if len(titles) > SuggestionCount {
		titles = titles[:SuggestionCount]
	}
	return titles
}

// normalizeTitleLine 取出單行的標題文字：
// 含 ". " 時取第一個 ". " 之後的內容，否則剝除行首的數字、句點、破折號與空白
func normalizeTitleLine(line string) string {
	if _, title, found := strings.Cut(line, ". "); found {
		return strings.TrimSpace(title)
	}
	return strings.TrimSpace(strings.TrimLeft(line, titleMarkerCutset))
}

// ParseRecipe 只去除前後空白，不驗證結構
func ParseRecipe(raw string) string {
	return strings.TrimSpace(raw)
}
