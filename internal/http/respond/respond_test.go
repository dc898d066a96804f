package respond

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/aion/internal/backup"
	"github.com/MrJamesThe3rd/aion/internal/goal"
	"github.com/MrJamesThe3rd/aion/internal/report"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("getting: %w", transaction.ErrNotFound), http.StatusNotFound},
		{goal.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: amount must be positive", transaction.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: missing transactions", backup.ErrInvalidBundle), http.StatusBadRequest},
		{transaction.ErrNotGrouped, http.StatusConflict},
		{transaction.ErrInvalidTransition, http.StatusConflict},
		{goal.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{report.ErrNoTransactions, http.StatusUnprocessableEntity},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusOf(tt.err))
		})
	}
}

func TestError_HidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	Error(w, r, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestMonth(t *testing.T) {
	for _, tt := range []struct {
		year, month string
		ok          bool
	}{
		{"2024", "6", true},
		{"2024", "06", true},
		{"2024", "13", false},
		{"24", "6", false},
	} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		rctx := chiContext(tt.year, tt.month)
		_, _, ok := Month(w, r.WithContext(rctx))
		assert.Equal(t, tt.ok, ok, tt.year+"-"+tt.month)
	}
}

func chiContext(year, month string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("year", year)
	rctx.URLParams.Add("month", month)

	return context.WithValue(context.Background(), chi.RouteCtxKey, rctx)
}
