package recipe

import (
	"context"
	"errors"
	"testing"

	"photo-recipe/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDetector struct {
	mock.Mock
}

func (m *mockDetector) Detect(ctx context.Context, image []byte) (*IngredientSet, error) {
	args := m.Called(ctx, image)
	set, _ := args.Get(0).(*IngredientSet)
	return set, args.Error(1)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type panickingGenerator struct{}

func (panickingGenerator) Complete(context.Context, string) (string, error) {
	panic("provider exploded")
}

var photo = []byte{0xFF, 0xD8, 0xFF, 0xE0}

func TestDetectAndSuggest(t *testing.T) {
	detector := new(mockDetector)
	generator := new(mockGenerator)

	detector.On("Detect", mock.Anything, photo).
		Return(NewIngredientSet("tomato", "pasta", "tomato"), nil)
	generator.On("Complete", mock.Anything, BuildSuggestionPrompt([]string{"tomato", "pasta"})).
		Return("1. Tomato Soup\n2. Pasta Bake\n3. Veggie Stir Fry\n4. Bean Chili\n5. Extra", nil)

	result, err := NewPipeline(detector, generator).DetectAndSuggest(context.Background(), photo)
	require.NoError(t, err)

	assert.Equal(t, []string{"tomato", "pasta"}, result.Detected)
	assert.Equal(t, []string{"Tomato Soup", "Pasta Bake", "Veggie Stir Fry", "Bean Chili"}, result.Suggestions)
	detector.AssertExpectations(t)
	generator.AssertExpectations(t)
}

func TestDetectAndSuggestNothingDetected(t *testing.T) {
	detector := new(mockDetector)
	generator := new(mockGenerator)

	detector.On("Detect", mock.Anything, photo).Return(NewIngredientSet(), nil)

	result, err := NewPipeline(detector, generator).DetectAndSuggest(context.Background(), photo)
	require.NoError(t, err)

	assert.Equal(t, []string{}, result.Detected)
	assert.Equal(t, []string{}, result.Suggestions)
	generator.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestDetectAndSuggestGenerationFailureKeepsDetections(t *testing.T) {
	detector := new(mockDetector)
	generator := new(mockGenerator)

	detector.On("Detect", mock.Anything, photo).Return(NewIngredientSet("egg", "spinach"), nil)
	generator.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

	result, err := NewPipeline(detector, generator).DetectAndSuggest(context.Background(), photo)
	require.NoError(t, err)

	assert.Equal(t, []string{"egg", "spinach"}, result.Detected)
	assert.Equal(t, []string{}, result.Suggestions)
	generator.AssertNumberOfCalls(t, "Complete", 1)
}

func TestDetectAndSuggestGeneratorPanic(t *testing.T) {
	detector := new(mockDetector)
	detector.On("Detect", mock.Anything, photo).Return(NewIngredientSet("banana"), nil)

	result, err := NewPipeline(detector, panickingGenerator{}).DetectAndSuggest(context.Background(), photo)
	require.NoError(t, err)

	assert.Equal(t, []string{"banana"}, result.Detected)
	assert.Equal(t, []string{}, result.Suggestions)
}

func TestDetectAndSuggestDetectionErrorPropagates(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "invalid image", err: common.NewInvalidImageError(errors.New("bad bytes"))},
		{name: "detection failure", err: common.NewDetectionFailure("http", errors.New("connection refused"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := new(mockDetector)
			generator := new(mockGenerator)
			detector.On("Detect", mock.Anything, photo).Return(nil, tt.err)

			result, err := NewPipeline(detector, generator).DetectAndSuggest(context.Background(), photo)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.err)
			generator.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
		})
	}
}

func TestGenerateRecipe(t *testing.T) {
	generator := new(mockGenerator)
	req := GenerateRequest{RecipeName: "Spinach Omelette", Ingredients: []string{"egg", "spinach"}}

	generator.On("Complete", mock.Anything, BuildRecipePrompt(req.RecipeName, req.Ingredients)).
		Return("\n Title: Spinach Omelette\n\nIngredients:\n- egg\n\nInstructions:\nStep 1: Cook.\n", nil)

	recipe := NewPipeline(new(mockDetector), generator).GenerateRecipe(context.Background(), req)

	assert.Equal(t, "Title: Spinach Omelette\n\nIngredients:\n- egg\n\nInstructions:\nStep 1: Cook.", recipe)
	generator.AssertExpectations(t)
}

func TestGenerateRecipeFailureReturnsEmpty(t *testing.T) {
	generator := new(mockGenerator)
	generator.On("Complete", mock.Anything, mock.Anything).Return("", context.DeadlineExceeded)

	recipe := NewPipeline(new(mockDetector), generator).GenerateRecipe(context.Background(), GenerateRequest{
		RecipeName:  "Bean Chili",
		Ingredients: []string{"beans"},
	})

	assert.Equal(t, "", recipe)
	generator.AssertNumberOfCalls(t, "Complete", 1)
}

func TestGenerateRecipePanicReturnsEmpty(t *testing.T) {
	recipe := NewPipeline(new(mockDetector), panickingGenerator{}).GenerateRecipe(context.Background(), GenerateRequest{
		RecipeName: "Toast",
	})
	assert.Equal(t, "", recipe)
}

func TestResult(t *testing.T) {
	ok := Ok([]string{"a"})
	assert.False(t, ok.Failed())
	assert.Equal(t, []string{"a"}, ok.OrDefault(nil))

	failed := Fail[string](stageRecipe, errors.New("boom"))
	assert.True(t, failed.Failed())
	assert.Equal(t, "fallback", failed.OrDefault("fallback"))
	assert.Equal(t, stageRecipe, failed.Err.Stage)
	assert.EqualError(t, failed.Err, "generation failed (recipe): boom")
}
