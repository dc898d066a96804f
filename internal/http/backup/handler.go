package backup

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/MrJamesThe3rd/aion/internal/backup"
	"github.com/MrJamesThe3rd/aion/internal/http/respond"
)

const maxBackup = 32 << 20

type Handler struct {
	svc *backup.Service
}

func NewHandler(svc *backup.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
	r.Post("/restore", h.restore)
	r.Post("/reset", h.reset)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Export(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"backup_contas_%s.json\"", time.Now().Format(time.DateOnly)))

	respond.JSON(w, r, http.StatusOK, b)
}

type restoreResponse struct {
	BackupDate   string `json:"backup_date,omitempty"`
	Transactions int    `json:"transactions"`
	Cards        int    `json:"cards"`
	Goals        int    `json:"goals"`
	Categories   int    `json:"categories"`
	Settings     bool   `json:"settings"`
}

// restore takes the raw backup file as the request body.
func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Restore(r.Context(), http.MaxBytesReader(w, r.Body, maxBackup))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, restoreResponse{
		BackupDate:   res.BackupDate,
		Transactions: res.Transactions,
		Cards:        res.Cards,
		Goals:        res.Goals,
		Categories:   res.Categories,
		Settings:     res.Settings,
	})
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		respond.Message(w, r, http.StatusBadRequest, "reset requires confirm=true")
		return
	}

	if err := h.svc.Reset(r.Context()); err != nil {
		respond.Error(w, r, err)
		return
	}

	hlog.FromRequest(r).Warn().Msg("ledger reset requested")
	w.WriteHeader(http.StatusNoContent)
}
