package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/aion/internal/category"
	"github.com/MrJamesThe3rd/aion/internal/http/respond"
)

type Handler struct {
	svc *category.Service
}

func NewHandler(svc *category.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.add)
	r.Put("/", h.replace)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, names)
}

type addRequest struct {
	Name string `json:"name"`
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	names, err := h.svc.Add(r.Context(), req.Name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, names)
}

func (h *Handler) replace(w http.ResponseWriter, r *http.Request) {
	var names []string
	if !respond.Decode(w, r, &names) {
		return
	}

	if err := h.svc.Replace(r.Context(), names); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
