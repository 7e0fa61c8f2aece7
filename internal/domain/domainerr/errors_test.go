package domainerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_KindAndMessage(t *testing.T) {
	err := New(ErrNotFound, "product does not exist")

	assert.Equal(t, "product does not exist", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestNewf_WrappedStillMatches(t *testing.T) {
	base := New(ErrInsufficientStock, "not enough stock")
	err := fmt.Errorf("%w: available 3, requested 5", base)

	assert.ErrorIs(t, err, base)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, "not enough stock: available 3, requested 5", err.Error())
}

func TestIsDomain(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"validation", New(ErrValidation, "bad"), true},
		{"conflict", Newf(ErrConflict, "user %q exists", "bob"), true},
		{"unauthorized", New(ErrUnauthorized, "nope"), true},
		{"plain", errors.New("connection reset"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDomain(tt.err))
		})
	}
}
