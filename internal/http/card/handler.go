package card

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/aion/internal/card"
	"github.com/MrJamesThe3rd/aion/internal/http/respond"
)

type Handler struct {
	svc *card.Service
}

func NewHandler(svc *card.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Post("/{id}/archive", h.archive(true))
	r.Post("/{id}/unarchive", h.archive(false))
	r.Delete("/{id}", h.delete)
}

type cardRequest struct {
	Name       string `json:"name"`
	HolderName string `json:"holder_name"`
	LimitTotal int64  `json:"limit_total"`
	ClosingDay int    `json:"closing_day"`
	DueDay     int    `json:"due_day"`
	Color      string `json:"color,omitempty"`
}

func (req cardRequest) params() card.Params {
	return card.Params{
		Name:       req.Name,
		HolderName: req.HolderName,
		LimitTotal: req.LimitTotal,
		ClosingDay: req.ClosingDay,
		DueDay:     req.DueDay,
		Color:      req.Color,
	}
}

type cardResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	HolderName string    `json:"holder_name"`
	LimitTotal int64     `json:"limit_total"`
	ClosingDay int       `json:"closing_day"`
	DueDay     int       `json:"due_day"`
	Color      string    `json:"color,omitempty"`
	IsArchived bool      `json:"is_archived"`
}

func toResponse(c *card.Card) cardResponse {
	return cardResponse{
		ID:         c.ID,
		Name:       c.Name,
		HolderName: c.HolderName,
		LimitTotal: c.LimitTotal,
		ClosingDay: c.ClosingDay,
		DueDay:     c.DueDay,
		Color:      c.Color,
		IsArchived: c.IsArchived,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.Create(r.Context(), req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, toResponse(c))
}

// list returns active cards only unless ?archived=true.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list := h.svc.ListActive
	if r.URL.Query().Get("archived") == "true" {
		list = h.svc.List
	}

	cards, err := list(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]cardResponse, len(cards))
	for i, c := range cards {
		resp[i] = toResponse(c)
	}

	respond.JSON(w, r, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, toResponse(c))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	var req cardRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.Update(r.Context(), id, req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, toResponse(c))
}

func (h *Handler) archive(archived bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := respond.ID(w, r)
		if !ok {
			return
		}

		c, err := h.svc.SetArchived(r.Context(), id, archived)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		respond.JSON(w, r, http.StatusOK, toResponse(c))
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
