package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/example/webstore/internal/domain/domainerr"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domainerr.New(domainerr.ErrValidation, "bad"), http.StatusBadRequest},
		{fmt.Errorf("%w: p 1", domainerr.New(domainerr.ErrInsufficientStock, "low")), http.StatusBadRequest},
		{domainerr.New(domainerr.ErrNotFound, "gone"), http.StatusNotFound},
		{domainerr.New(domainerr.ErrConflict, "dup"), http.StatusConflict},
		{domainerr.New(domainerr.ErrUnauthorized, "who"), http.StatusUnauthorized},
		{errors.New("driver: bad connection"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
