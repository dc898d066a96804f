package goal

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/aion/internal/goal"
	"github.com/MrJamesThe3rd/aion/internal/http/respond"
)

type Handler struct {
	svc *goal.Service
	loc *time.Location
}

// NewHandler reads deadlines as dates in loc.
func NewHandler(svc *goal.Service, loc *time.Location) *Handler {
	return &Handler{svc: svc, loc: loc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Post("/{id}/deposit", h.deposit)
	r.Post("/{id}/withdraw", h.withdraw)
	r.Delete("/{id}", h.delete)
}

type goalRequest struct {
	Title        string `json:"title"`
	TargetAmount int64  `json:"target_amount"`
	Deadline     string `json:"deadline,omitempty"`
}

type goalResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	TargetAmount  int64     `json:"target_amount"`
	CurrentAmount int64     `json:"current_amount"`
	Remaining     int64     `json:"remaining"`
	Progress      float64   `json:"progress"`
	Deadline      string    `json:"deadline,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toResponse(g *goal.Goal) goalResponse {
	resp := goalResponse{
		ID:            g.ID,
		Title:         g.Title,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Remaining:     g.Remaining(),
		Progress:      g.Progress(),
		CreatedAt:     g.CreatedAt,
	}

	if g.Deadline != nil {
		resp.Deadline = g.Deadline.Format(time.DateOnly)
	}

	return resp
}

func (h *Handler) params(w http.ResponseWriter, r *http.Request) (goal.Params, bool) {
	var req goalRequest
	if !respond.Decode(w, r, &req) {
		return goal.Params{}, false
	}

	p := goal.Params{Title: req.Title, TargetAmount: req.TargetAmount}

	if req.Deadline != "" {
		d, err := respond.Date(req.Deadline, h.loc)
		if err != nil {
			respond.Message(w, r, http.StatusBadRequest, err.Error())
			return goal.Params{}, false
		}

		p.Deadline = &d
	}

	return p, true
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	p, ok := h.params(w, r)
	if !ok {
		return
	}

	g, err := h.svc.Create(r.Context(), p)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, toResponse(g))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	goals, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]goalResponse, len(goals))
	for i, g := range goals {
		resp[i] = toResponse(g)
	}

	respond.JSON(w, r, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	g, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, toResponse(g))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	p, ok := h.params(w, r)
	if !ok {
		return
	}

	g, err := h.svc.Update(r.Context(), id, p)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, toResponse(g))
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.svc.Deposit)
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.svc.Withdraw)
}

func (h *Handler) move(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID, amount int64) (*goal.Goal, error)) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	var req amountRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	g, err := fn(r.Context(), id, req.Amount)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, toResponse(g))
}

// delete refunds the saved amount to the ledger when ?refund=true.
func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	refund := r.URL.Query().Get("refund") == "true"

	if err := h.svc.Delete(r.Context(), id, refund); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
