package report

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/aion/internal/http/respond"
	"github.com/MrJamesThe3rd/aion/internal/report"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

type Handler struct {
	svc *report.Service
	loc *time.Location
}

func NewHandler(svc *report.Service, loc *time.Location) *Handler {
	return &Handler{svc: svc, loc: loc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/monthly/{year}/{month}", h.monthly)
	r.Get("/monthly/{year}/{month}/archive", h.archive)
	r.Get("/calendar.ics", h.calendar)
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	year, month, ok := respond.Month(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.svc.Monthly(r.Context(), &buf, year, month); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	year, month, ok := respond.Month(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.svc.Archive(r.Context(), &buf, year, month); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"extrato_%04d_%02d.zip\"", year, month))
	buf.WriteTo(w)
}

func (h *Handler) calendar(w http.ResponseWriter, r *http.Request) {
	var filter transaction.ListFilter

	for param, dst := range map[string]**time.Time{"start_date": &filter.StartDate, "end_date": &filter.EndDate} {
		s := r.URL.Query().Get(param)
		if s == "" {
			continue
		}

		t, err := respond.Date(s, h.loc)
		if err != nil {
			respond.Message(w, r, http.StatusBadRequest, err.Error())
			return
		}

		*dst = &t
	}

	var buf bytes.Buffer
	if err := h.svc.Calendar(r.Context(), &buf, filter); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\"contas.ics\"")
	buf.WriteTo(w)
}
