package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/momotired/servo-msg-demo/internal/http/handler"
	"github.com/momotired/servo-msg-demo/internal/service"
)

// StateReporter exposes storage readiness for the health endpoint.
type StateReporter interface {
	State() service.State
}

// NewRouter wires HTTP routes.
func NewRouter(message *handler.MessageHandler, admin *handler.AdminHandler, gate handler.Authorizer, adminHeader string, state StateReporter) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// The board is consumed by browser clients served from elsewhere;
	// any origin may call any route.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", adminHeader},
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Hello, World!"))
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		status := http.StatusOK
		if state.State() != service.StateReady {
			status = http.StatusServiceUnavailable
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(state.State().String()))
	})

	r.Route("/messages", func(r chi.Router) {
		r.Get("/", message.List)
		r.Post("/", message.Create)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(handler.RequireAdmin(gate, adminHeader))
		r.Get("/messages", admin.ListAll)
		r.Put("/messages/{id}/visibility", admin.SetVisibility)
	})

	return r
}
