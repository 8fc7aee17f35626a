package demo

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.middleware)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(10 * time.Second))
		// Any method, any request: the response never varies.
		r.HandleFunc("/", s.Root)
	})

	r.Get("/healthz", s.Healthz)
	r.Handle("/metrics", s.metrics.handler())

	return r
}

func (s *Server) Root(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, s.config.Message)
}

func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, `{"status":"healthy"}`)
}
