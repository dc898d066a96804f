package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/MrJamesThe3rd/aion/internal/http/backup"
	"github.com/MrJamesThe3rd/aion/internal/http/card"
	"github.com/MrJamesThe3rd/aion/internal/http/category"
	"github.com/MrJamesThe3rd/aion/internal/http/goal"
	"github.com/MrJamesThe3rd/aion/internal/http/report"
	"github.com/MrJamesThe3rd/aion/internal/http/settings"
	"github.com/MrJamesThe3rd/aion/internal/http/summary"
	"github.com/MrJamesThe3rd/aion/internal/http/transaction"
)

type Handlers struct {
	Transactions *transaction.Handler
	Summary      *summary.Handler
	Cards        *card.Handler
	Goals        *goal.Handler
	Categories   *category.Handler
	Settings     *settings.Handler
	Backup       *backup.Handler
	Reports      *report.Handler
}

type Options struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
	Timeout        time.Duration
}

// requestIDLogger tags the request logger with the id set by middleware.RequestID.
func requestIDLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			log := zerolog.Ctx(r.Context()).With().Str("request_id", id).Logger()
			r = r.WithContext(log.WithContext(r.Context()))
		}

		next.ServeHTTP(w, r)
	})
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(hlog.NewHandler(opts.Logger))
	router.Use(requestIDLogger)
	router.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-Id"},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	jsonOnly := middleware.AllowContentType("application/json")

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(jsonOnly)
			h.Transactions.Routes(r)
		})

		r.Route("/summary", h.Summary.Routes)

		r.Route("/cards", func(r chi.Router) {
			r.Use(jsonOnly)
			h.Cards.Routes(r)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Use(jsonOnly)
			h.Goals.Routes(r)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(jsonOnly)
			h.Categories.Routes(r)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Use(jsonOnly)
			h.Settings.Routes(r)
		})

		r.Route("/backup", h.Backup.Routes)
		r.Route("/reports", h.Reports.Routes)
	})

	return router
}
