package transaction

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/MrJamesThe3rd/aion/internal/http/respond"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Post("/income", h.income)
	r.Post("/sweep", h.sweep)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/group", h.group)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/status", h.updateStatus)
	r.Patch("/{id}", h.update)
	r.Post("/{id}/stop-recurrence", h.stopRecurrence)
	r.Post("/{id}/anticipate", h.anticipate)
}

type createTransactionRequest struct {
	Description      string                      `json:"description"`
	Amount           int64                       `json:"amount"`
	Type             transaction.Type            `json:"type"`
	Category         string                      `json:"category"`
	Date             string                      `json:"date"`
	Recurrence       transaction.Recurrence      `json:"recurrence"`
	InstallmentCount int                         `json:"installment_count,omitempty"`
	InstallmentMode  transaction.InstallmentMode `json:"installment_mode,omitempty"`
	NthBusinessDay   int                         `json:"nth_business_day,omitempty"`
	WorkDaysOnly     bool                        `json:"work_days_only,omitempty"`
	CardID           *uuid.UUID                  `json:"card_id,omitempty"`
	PaymentMethod    transaction.PaymentMethod   `json:"payment_method,omitempty"`
}

func (h *Handler) date(w http.ResponseWriter, r *http.Request, s string) (time.Time, bool) {
	if s == "" {
		now := h.svc.Now()
		y, m, d := now.Date()

		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	}

	t, err := respond.Date(s, h.svc.Now().Location())
	if err != nil {
		respond.Message(w, r, http.StatusBadRequest, err.Error())
		return time.Time{}, false
	}

	return t, true
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	date, ok := h.date(w, r, req.Date)
	if !ok {
		return
	}

	if req.Recurrence == "" {
		req.Recurrence = transaction.RecurrenceSingle
	}

	if req.PaymentMethod == "" {
		req.PaymentMethod = transaction.PaymentOther
	}

	txs, err := h.svc.Create(r.Context(), transaction.GenerateRequest{
		Description:      req.Description,
		Amount:           req.Amount,
		Date:             date,
		Type:             req.Type,
		Category:         req.Category,
		Recurrence:       req.Recurrence,
		CardID:           req.CardID,
		PaymentMethod:    req.PaymentMethod,
		NthDay:           req.NthBusinessDay,
		WorkDaysOnly:     req.WorkDaysOnly,
		InstallmentCount: req.InstallmentCount,
		InstallmentMode:  req.InstallmentMode,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().
		Int("count", len(txs)).
		Str("recurrence", string(req.Recurrence)).
		Msg("transactions created")

	respond.JSON(w, r, http.StatusCreated, toResponseList(txs))
}

type incomeRequest struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

func (h *Handler) income(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	date, ok := h.date(w, r, req.Date)
	if !ok {
		return
	}

	tx, err := h.svc.AddIncome(r.Context(), req.Description, req.Amount, date, req.Category)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	loc := h.svc.Now().Location()
	filter := transaction.ListFilter{}

	if s := q.Get("status"); s != "" {
		filter.Status = new(transaction.Status(s))
	}

	if s := q.Get("type"); s != "" {
		filter.Type = new(transaction.Type(s))
	}

	if s := q.Get("start_date"); s != "" {
		if t, err := respond.Date(s, loc); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := q.Get("end_date"); s != "" {
		if t, err := respond.Date(s, loc); err == nil {
			filter.EndDate = new(t)
		}
	}

	if s := q.Get("group_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.GroupID = new(id)
		}
	}

	if s := q.Get("card_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.CardID = new(id)
		}
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, toResponse(tx))
}

type groupResponse struct {
	HasFutureRecurrences   bool `json:"has_future_recurrences"`
	HasPendingInstallments bool `json:"has_pending_installments"`
}

// group tells a client which group actions are worth offering for the transaction.
func (h *Handler) group(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var resp groupResponse

	if resp.HasFutureRecurrences, err = h.svc.HasFutureRecurrences(r.Context(), tx); err != nil {
		respond.Error(w, r, err)
		return
	}

	if resp.HasPendingInstallments, err = h.svc.HasPendingInstallments(r.Context(), tx); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, resp)
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

type updateTransactionRequest struct {
	Description *string `json:"description,omitempty"`
	Amount      *int64  `json:"amount,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	var req updateTransactionRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	tx, err := h.svc.Update(r.Context(), id, transaction.EditParams{
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, toResponse(tx))
}

type updateStatusRequest struct {
	Status transaction.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	tx, err := h.svc.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, toResponse(tx))
}

type countResponse struct {
	Affected int64 `json:"affected"`
}

func (h *Handler) stopRecurrence(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	n, err := h.svc.StopRecurrence(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, countResponse{Affected: n})
}

func (h *Handler) anticipate(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	n, err := h.svc.Anticipate(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, countResponse{Affected: n})
}

func (h *Handler) sweep(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.SweepOverdue(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, countResponse{Affected: n})
}
