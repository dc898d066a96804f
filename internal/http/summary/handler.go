package summary

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/aion/internal/http/respond"
	"github.com/MrJamesThe3rd/aion/internal/summary"
)

type Handler struct {
	svc *summary.Service
}

func NewHandler(svc *summary.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/cards", h.cards)
	r.Get("/{year}/{month}", h.month)
}

type categoryResponse struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

type monthResponse struct {
	Year               int                `json:"year"`
	Month              int                `json:"month"`
	Income             int64              `json:"income"`
	Paid               int64              `json:"paid"`
	Remaining          int64              `json:"remaining"`
	Overdue            int64              `json:"overdue"`
	Balance            int64              `json:"balance"`
	AccumulatedSurplus int64              `json:"accumulated_surplus"`
	Total              int64              `json:"total"`
	ByCategory         []categoryResponse `json:"by_category"`
}

func (h *Handler) month(w http.ResponseWriter, r *http.Request) {
	year, month, ok := respond.Month(w, r)
	if !ok {
		return
	}

	m, err := h.svc.Month(r.Context(), year, month)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := monthResponse{
		Year:               m.Year,
		Month:              int(m.Month),
		Income:             m.Income,
		Paid:               m.Paid,
		Remaining:          m.Remaining,
		Overdue:            m.Overdue,
		Balance:            m.Balance,
		AccumulatedSurplus: m.AccumulatedSurplus,
		Total:              m.Total,
		ByCategory:         make([]categoryResponse, len(m.ByCategory)),
	}

	for i, c := range m.ByCategory {
		resp.ByCategory[i] = categoryResponse{Category: c.Category, Amount: c.Amount}
	}

	respond.JSON(w, r, http.StatusOK, resp)
}

type cardUsageResponse struct {
	CardID     uuid.UUID `json:"card_id"`
	Name       string    `json:"name"`
	IsArchived bool      `json:"is_archived"`
	Limit      int64     `json:"limit"`
	Used       int64     `json:"used"`
	Available  int64     `json:"available"`
}

func (h *Handler) cards(w http.ResponseWriter, r *http.Request) {
	usage, err := h.svc.CardUsage(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]cardUsageResponse, len(usage))
	for i, u := range usage {
		resp[i] = cardUsageResponse{
			CardID:     u.Card.ID,
			Name:       u.Card.Name,
			IsArchived: u.Card.IsArchived,
			Limit:      u.Card.LimitTotal,
			Used:       u.Used,
			Available:  u.Available,
		}
	}

	respond.JSON(w, r, http.StatusOK, resp)
}
