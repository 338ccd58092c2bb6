package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/actuallystonmai/food-swipe/internal/handler"
	"github.com/actuallystonmai/food-swipe/internal/hub"
)

type Options struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
}

func Setup(h *handler.Handler, hb *hub.Hub, opts Options) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// WebSocket connections outlive any request timeout.
	up := hub.Upgrader(opts.CORSOrigins)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		hb.ServeWS(up, w, r)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if opts.RequestTimeout > 0 {
			r.Use(middleware.Timeout(opts.RequestTimeout))
		}

		r.Get("/health", h.Health)
		r.Get("/state", h.GetState)
		r.Get("/summary", h.GetSummary)

		r.Route("/gesture", func(r chi.Router) {
			r.Post("/start", h.GestureStart)
			r.Post("/move", h.GestureMove)
			r.Post("/end", h.GestureEnd)
			r.Post("/cancel", h.GestureCancel)
		})
		r.Post("/actions/{action}", h.TriggerAction)
		r.Post("/retry", h.Retry)
		r.Post("/reset", h.Reset)
	})

	return r
}
