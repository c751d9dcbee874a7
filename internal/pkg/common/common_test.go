package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCustomError(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid image", NewInvalidImageError(cause), http.StatusBadRequest, ErrCodeInvalidImage},
		{"wrapped invalid image", fmt.Errorf("decode: %w", NewInvalidImageError(cause)), http.StatusBadRequest, ErrCodeInvalidImage},
		{"detection failure", NewDetectionFailure("http", cause), http.StatusBadGateway, ErrCodeDetectionFailed},
		{"body too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, ErrCodeRequestTooLarge},
		{"unknown", cause, http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customErr := ToCustomError(tt.err)
			assert.Equal(t, tt.status, customErr.Status)
			assert.Equal(t, tt.code, customErr.Code)
			assert.ErrorIs(t, customErr, tt.err)
		})
	}
}

func TestGenerationFailure(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := NewGenerationFailure("suggestions", cause)

	assert.EqualError(t, err, "generation failed (suggestions): quota exceeded")
	assert.ErrorIs(t, err, cause)
}

func TestParseJSONBytes(t *testing.T) {
	var out struct {
		Label string `json:"label"`
	}
	require.NoError(t, ParseJSONBytes([]byte(`{"label":"egg"}`), &out))
	assert.Equal(t, "egg", out.Label)

	assert.Error(t, ParseJSONBytes([]byte(`{"label":"egg"} {"label":"ham"}`), &out))
	assert.Error(t, ParseJSONBytes([]byte(`{"label":`), &out))
}

func TestJoinIngredients(t *testing.T) {
	assert.Equal(t, "egg, spinach", JoinIngredients([]string{"egg", "spinach"}))
	assert.Equal(t, "", JoinIngredients(nil))
}
