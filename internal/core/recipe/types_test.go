package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIngredientSet(t *testing.T) {
	set := NewIngredientSet("banana", "apple", "banana", " apple ", "", "  ", "broccoli")

	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []string{"banana", "apple", "broccoli"}, set.Labels())
	assert.True(t, set.Contains("apple"))
	assert.False(t, set.Contains("carrot"))

	assert.False(t, set.Add("banana"))
	assert.True(t, set.Add("carrot"))
	assert.Equal(t, 4, set.Len())
}

func TestIngredientSetLabelsIsCopy(t *testing.T) {
	set := NewIngredientSet("egg")
	labels := set.Labels()
	labels[0] = "changed"

	assert.Equal(t, []string{"egg"}, set.Labels())
}

func TestIngredientSetEmpty(t *testing.T) {
	var nilSet *IngredientSet
	assert.Equal(t, 0, nilSet.Len())
	assert.Equal(t, []string{}, nilSet.Labels())

	var zero IngredientSet
	assert.True(t, zero.Add("pizza"))
	assert.Equal(t, []string{"pizza"}, zero.Labels())
}
