package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dukerupert/shoplist/internal/shopping"
	"github.com/dukerupert/shoplist/internal/store"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("list x: %w", shopping.ErrNotFound), http.StatusNotFound},
		{shopping.ErrForbidden, http.StatusBadRequest},
		{shopping.ErrMissingCaller, http.StatusBadRequest},
		{shopping.ErrNoFieldsToUpdate, http.StatusBadRequest},
		{shopping.ErrItemListMismatch, http.StatusBadRequest},
		{shopping.ErrInvalidInput, http.StatusBadRequest},
		{shopping.ErrInconsistent, http.StatusConflict},
		{fmt.Errorf("insert: %w", store.ErrDuplicate), http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
