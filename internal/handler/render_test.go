package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/weibaohui/piepress/internal/pkg/nonce"
	"github.com/weibaohui/piepress/internal/repository"
	"github.com/weibaohui/piepress/internal/service"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{repository.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("load: %w", repository.ErrNotFound), http.StatusNotFound},
		{service.ErrUnknownType, http.StatusNotFound},
		{errPageNotFound, http.StatusNotFound},
		{service.ErrForbidden, http.StatusForbidden},
		{nonce.ErrInvalid, http.StatusUnauthorized},
		{service.ErrTitleRequired, http.StatusBadRequest},
		{service.ErrInvalidStatus, http.StatusBadRequest},
		{fmt.Errorf("%w: invalid id", errBadRequest), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
