package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/shoplist/internal/handler"
	"github.com/dukerupert/shoplist/internal/metrics"
	"github.com/dukerupert/shoplist/internal/middleware"
	"github.com/dukerupert/shoplist/internal/shopping"
	"github.com/dukerupert/shoplist/internal/store"
)

// Options carries the request-handling settings from config.
type Options struct {
	UserHeader     string
	WriteLimit     int
	AutoCategorize bool
}

type Server struct {
	db          *sql.DB
	listH       *handler.ListHandler
	categoryH   *handler.CategoryHandler
	metrics     *metrics.Metrics
	rateLimiter *middleware.RateLimiter
	opts        Options
	logger      *slog.Logger
}

func New(db *sql.DB, opts Options, logger *slog.Logger) *Server {
	listStore := store.NewListStore(db)
	categoryStore := store.NewCategoryStore(db)
	m := metrics.New()

	svc := shopping.NewService(listStore, categoryStore, shopping.WithAutoCategorize(opts.AutoCategorize))

	return &Server{
		db:          db,
		listH:       handler.NewListHandler(svc, m, logger.With("component", "list")),
		categoryH:   handler.NewCategoryHandler(categoryStore, logger.With("component", "category")),
		metrics:     m,
		rateLimiter: middleware.NewRateLimiter(opts.WriteLimit, time.Minute),
		opts:        opts,
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", s.metrics.Handler())

	// Lists
	mux.HandleFunc("POST /api/lists", s.writeLimited(s.listH.CreateList))
	mux.HandleFunc("GET /api/lists", s.listH.GetLists)
	mux.HandleFunc("GET /api/lists/{id}", s.listH.GetList)
	mux.HandleFunc("PUT /api/lists/{id}", s.writeLimited(s.listH.UpdateList))
	mux.HandleFunc("DELETE /api/lists/{id}", s.writeLimited(s.listH.DeleteList))
	mux.HandleFunc("POST /api/lists/{id}/clear-checked", s.writeLimited(s.listH.ClearChecked))

	// Items
	mux.HandleFunc("GET /api/lists/{id}/items", s.listH.GetItems)
	mux.HandleFunc("POST /api/lists/{id}/items", s.writeLimited(s.listH.AddItem))
	mux.HandleFunc("PATCH /api/lists/{id}/items/{item_id}", s.writeLimited(s.listH.UpdateItem))
	mux.HandleFunc("DELETE /api/lists/{id}/items/{item_id}", s.writeLimited(s.listH.DeleteItem))

	// Category catalog
	mux.HandleFunc("GET /api/categories", s.categoryH.List)
	mux.HandleFunc("POST /api/categories", s.writeLimited(s.categoryH.Create))
	mux.HandleFunc("GET /api/categories/{id}", s.categoryH.Get)
	mux.HandleFunc("PUT /api/categories/{id}", s.writeLimited(s.categoryH.Update))
	mux.HandleFunc("DELETE /api/categories/{id}", s.writeLimited(s.categoryH.Delete))

	// Logger and metrics see the request the mux annotates with its
	// pattern, so Identity has to wrap them rather than sit inside.
	var h http.Handler = mux
	h = middleware.Instrument(s.metrics)(h)
	h = middleware.RequestLogger(s.logger.With("component", "http"))(h)
	h = middleware.Identity(s.opts.UserHeader)(h)
	return h
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// writeLimited applies the per-caller write budget to a mutating handler.
func (s *Server) writeLimited(h http.HandlerFunc) http.HandlerFunc {
	return middleware.RateLimit(s.rateLimiter, middleware.CallerKey)(h).ServeHTTP
}
