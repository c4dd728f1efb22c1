package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"expense-workflow/internal/currency"
	"expense-workflow/internal/domain/expense"
	"expense-workflow/internal/domain/rule"
	"expense-workflow/internal/domain/user"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{expense.ErrInvalidAmount, http.StatusUnprocessableEntity},
		{rule.ErrNotFound, http.StatusNotFound},
		{expense.ErrNotAuthorised, http.StatusForbidden},
		{expense.ErrAlreadyResolved, http.StatusConflict},
		{user.ErrEmailTaken, http.StatusConflict},
		{fmt.Errorf("%w: USD to XYZ", currency.ErrRateUnavailable), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusOf(tt.err); got != tt.want {
			t.Fatalf("statusOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
