// Package v1 implements the native REST API.
package v1

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/vmunix/carbon/internal/events"
	"github.com/vmunix/carbon/internal/job"
	"github.com/vmunix/carbon/internal/queue"
)

// DefaultCancelTimeout bounds how long a cancel request waits for the job
// to settle before answering 202.
const DefaultCancelTimeout = 5 * time.Second

// Config holds API server configuration.
type Config struct {
	Version       string
	CancelTimeout time.Duration
	PingInterval  time.Duration
}

// Server is the v1 API server.
type Server struct {
	queue    Queue
	events   EventLister // nil when the journal is disabled
	registry *events.Registry
	cfg      Config
	log      *slog.Logger
	upgrader websocket.Upgrader
	started  time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// New creates a new v1 API server.
func New(q Queue, ev EventLister, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CancelTimeout <= 0 {
		cfg.CancelTimeout = DefaultCancelTimeout
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	return &Server{
		queue:    q,
		events:   ev,
		registry: events.DefaultRegistry(),
		cfg:      cfg,
		log:    logger.With("component", "api"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // local tool, any origin
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		started: time.Now(),
		done:    make(chan struct{}),
	}
}

// Close ends every open snapshot stream.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Handler returns the router with every API route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api/v1", s.RegisterRoutes)
	return r
}

// RegisterRoutes registers API routes on the given router.
func (s *Server) RegisterRoutes(r chi.Router) {
	// Jobs
	r.Get("/jobs", s.listJobs)
	r.Post("/jobs", s.addJob)
	r.Post("/jobs/clear", s.clearJobs)
	r.Get("/jobs/{id}", s.getJob)
	r.Delete("/jobs/{id}", s.deleteJob)
	r.Post("/jobs/{id}/cancel", s.cancelJob)
	r.Get("/jobs/{id}/events", s.listJobEvents)

	// Queue
	r.Get("/queue/concurrency", s.getConcurrency)
	r.Put("/queue/concurrency", s.setConcurrency)

	// Events
	r.Get("/events", s.listEvents)

	// System
	r.Get("/status", s.getStatus)
	r.Get("/ws", s.stream)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// writeQueueError maps scheduler errors onto HTTP statuses.
func writeQueueError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, queue.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Job not found")
	case errors.Is(err, queue.ErrJobActive):
		writeError(w, http.StatusConflict, "JOB_ACTIVE", err.Error())
	case errors.Is(err, queue.ErrInvalidConcurrency):
		writeError(w, http.StatusBadRequest, "INVALID_CONCURRENCY", err.Error())
	case errors.Is(err, job.ErrEmptyURL):
		writeError(w, http.StatusBadRequest, "INVALID_URL", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
