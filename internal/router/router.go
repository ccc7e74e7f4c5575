package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"mathtutor-backend/internal/handlers"
	"mathtutor-backend/internal/middleware"
)

// LegacyTutorPath is the serverless function path existing front-ends call.
const LegacyTutorPath = "/.netlify/functions/get-gemini-response"

type Options struct {
	AllowedOrigins []string
	MetricsEnabled bool
}

func New(tutorHandler *handlers.TutorHandler, log *logrus.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if opts.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// The tutor handler checks the method itself.
	r.Handle(LegacyTutorPath, tutorHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Handle("/tutor", tutorHandler)
	})

	return r
}
