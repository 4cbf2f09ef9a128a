package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrEndpointUnavailable", ErrEndpointUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrInvalidInput(t *testing.T) {
	assert.Equal(t, "invalid input", ErrInvalidInput.Error())
	assert.True(t, errors.Is(ErrInvalidInput, ErrInvalidInput))
	assert.False(t, errors.Is(ErrInvalidInput, ErrUnsupportedType))
}

func TestErrors_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("querying endpoint: %w", ErrEndpointUnavailable)

	assert.ErrorIs(t, wrapped, ErrEndpointUnavailable)
	assert.NotErrorIs(t, wrapped, ErrInvalidInput)
}
