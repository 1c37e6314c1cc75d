package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kindredapp/kindred/pkg/repository"
	"github.com/kindredapp/kindred/pkg/usecase/chat"
	"github.com/kindredapp/kindred/pkg/usecase/feedback"
	"github.com/kindredapp/kindred/pkg/usecase/triage"
	"github.com/kindredapp/kindred/pkg/utils/logging"
)

// Server exposes the triage pipeline, the chat assistant and the stores
// over an HTTP API consumed by the mobile app.
type Server struct {
	repo     repository.Repository
	triage   *triage.UseCase
	chat     *chat.UseCase
	feedback *feedback.UseCase
}

// New creates a new Server instance
func New(repo repository.Repository, triageUC *triage.UseCase, chatUC *chat.UseCase, feedbackUC *feedback.UseCase) *Server {
	return &Server{
		repo:     repo,
		triage:   triageUC,
		chat:     chatUC,
		feedback: feedbackUC,
	}
}

// Router builds the HTTP routing table
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/readings", s.handleLogReading)
		r.Post("/analyze-reading", s.handleAnalyzeReading)
		r.Post("/chat", s.handleChat)
		r.Post("/feedback", s.handleFeedback)
		r.Get("/alerts", s.handleListAlerts)
		r.Post("/alerts/{alertID}/acknowledge", s.handleAcknowledgeAlert)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

// requestLogger attaches a request-scoped logger to the context and logs
// one line per request on completion.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.Default().With(
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)
		ctx := logging.With(r.Context(), logger)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))
		logger.Debug("request served", "status", ww.Status(), "duration", time.Since(start))
	})
}
