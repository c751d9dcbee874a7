package recipe

import (
	"fmt"

	"photo-recipe/internal/pkg/common"
)

// SuggestionCount 推薦食譜標題的數量
const SuggestionCount = 4

// BuildSuggestionPrompt 組裝推薦標題用的 prompt
func BuildSuggestionPrompt(ingredients []string) string {
	return fmt.Sprintf(
		"Given these ingredients: %s\n"+
			"Propose exactly %d distinct, appetizing recipe titles that realistically use them. "+
			"Return only a plain numbered list of titles, one per line, with no additional commentary.",
		common.JoinIngredients(ingredients),
		SuggestionCount,
	)
}

// BuildRecipePrompt 組裝完整食譜用的 prompt
func BuildRecipePrompt(name string, ingredients []string) string {
	return fmt.Sprintf(
		"Create a clean, human-friendly recipe for '%s' using these ingredients: %s.\n"+
			"Return in this format without markdown hashes, bold text, or asterisks:\n"+
			"Title: <title>\n\n"+
			"Ingredients:\n- item\n- item\n\n"+
			"Instructions:\nStep 1: ...\nStep 2: ...\n",
		name,
		common.JoinIngredients(ingredients),
	)
}
