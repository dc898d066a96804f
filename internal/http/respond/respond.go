// Package respond holds the JSON helpers shared by the API handlers.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/MrJamesThe3rd/aion/internal/backup"
	"github.com/MrJamesThe3rd/aion/internal/card"
	"github.com/MrJamesThe3rd/aion/internal/category"
	"github.com/MrJamesThe3rd/aion/internal/goal"
	"github.com/MrJamesThe3rd/aion/internal/money"
	"github.com/MrJamesThe3rd/aion/internal/report"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

const maxBody = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to encode response")
	}
}

func Message(w http.ResponseWriter, r *http.Request, status int, msg string) {
	JSON(w, r, status, errorResponse{Error: msg})
}

// Error maps domain errors to status codes. Anything unknown is logged and reported as 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)

	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		Message(w, r, status, "internal error")

		return
	}

	Message(w, r, status, err.Error())
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, transaction.ErrNotFound),
		errors.Is(err, card.ErrNotFound),
		errors.Is(err, goal.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, transaction.ErrInvalidInput),
		errors.Is(err, card.ErrInvalidInput),
		errors.Is(err, goal.ErrInvalidInput),
		errors.Is(err, category.ErrInvalidInput),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, backup.ErrInvalidBundle):
		return http.StatusBadRequest
	case errors.Is(err, transaction.ErrNotGrouped),
		errors.Is(err, transaction.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, goal.ErrInsufficientFunds),
		errors.Is(err, report.ErrNoTransactions):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON body into v, writing a 400 when it cannot.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Message(w, r, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}

	return true
}

// ID parses the {id} URL parameter, writing a 400 when it is not a UUID.
func ID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Message(w, r, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}

	return id, true
}

// Date parses a "YYYY-MM-DD" value as midnight in loc.
func Date(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}

	return t, nil
}

// Month parses the {year} and {month} URL parameters.
func Month(w http.ResponseWriter, r *http.Request) (int, time.Month, bool) {
	t, err := time.Parse("2006-1", chi.URLParam(r, "year")+"-"+chi.URLParam(r, "month"))
	if err != nil {
		Message(w, r, http.StatusBadRequest, "invalid month")
		return 0, 0, false
	}

	return t.Year(), t.Month(), true
}
