package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"eventflow/internal/config"
	"eventflow/internal/database"
	"eventflow/internal/logger"
	"eventflow/internal/models"
	"eventflow/internal/pipeline"
	"eventflow/internal/source"
	"eventflow/pkg/event"
	"eventflow/pkg/monoid"
)

const maxEvaluateBody = 4 << 20

// Server represents the API server
type Server struct {
	router *mux.Router
	dlq    source.EntryLister
	orders source.OrderLister
	rules  config.Rules
	cfg    *config.APIConfig
	server *http.Server
}

// DLQSummary is the response of GET /dlq
type DLQSummary struct {
	Count    int            `json:"count"`
	ByReason map[string]int `json:"byReason"`
}

// OrderSummary is the response of GET /orders/summary
type OrderSummary struct {
	Orders int                `json:"orders"`
	Totals map[string]float64 `json:"totals"`
}

// New creates a new API server
func New(cfg *config.APIConfig, dlq source.EntryLister, orders source.OrderLister, rules config.Rules) *Server {
	s := &Server{
		router: mux.NewRouter(),
		dlq:    dlq,
		orders: orders,
		rules:  rules,
		cfg:    cfg,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Use(requestID)

	s.router.HandleFunc("/health", s.healthCheck).Methods(http.MethodGet)

	s.router.HandleFunc("/dlq", s.getDLQ).Methods(http.MethodGet)
	s.router.HandleFunc("/orders/summary", s.getOrderSummary).Methods(http.MethodGet)
	s.router.HandleFunc("/evaluate", s.evaluate).Methods(http.MethodPost)

	s.router.Handle("/metrics", promhttp.Handler())
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the API server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.GetAPIAddr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Log.Infof("Starting API server on port %s", s.cfg.Port)
	return s.server.ListenAndServe()
}

// Stop gracefully stops the API server
func (s *Server) Stop(ctx context.Context) error {
	logger.Log.Info("Shutting down API server...")
	return s.server.Shutdown(ctx)
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		next.ServeHTTP(w, r)

		logger.WithFields(logrus.Fields{
			"requestId": id,
			"method":    r.Method,
			"path":      r.URL.Path,
			"duration":  time.Since(start).String(),
		}).Debug("Request served")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Errorf("Failed to encode response: %v", err)
	}
}

// healthCheck handles health check requests
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// getDLQ handles GET /dlq
func (s *Server) getDLQ(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	entries, err := source.DLQ(ctx, s.dlq)
	if err != nil {
		logger.Log.Errorf("Failed to read DLQ: %v", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, DLQSummary{
		Count: event.FoldMap(monoid.Sum[int](), entries, func(models.DLQEntry) int { return 1 }),
		ByReason: event.FoldMap(monoid.MapSum[string, int](), entries, func(e models.DLQEntry) map[string]int {
			return map[string]int{e.Error: 1}
		}),
	})
}

// getOrderSummary handles GET /orders/summary?limit=N
func (s *Server) getOrderSummary(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := source.Orders(ctx, s.orders, limit)
	if err != nil {
		logger.Log.Errorf("Failed to read orders: %v", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, OrderSummary{
		Orders: event.FoldMap(monoid.Sum[int](), orders, func(database.Order) int { return 1 }),
		Totals: event.FoldMap(monoid.MapSum[string, float64](), orders, func(o database.Order) map[string]float64 {
			return map[string]float64{o.Currency: o.TotalAmount}
		}),
	})
}

// evaluate handles POST /evaluate, a dry run of the pipeline over a JSON
// array of records
func (s *Server) evaluate(w http.ResponseWriter, r *http.Request) {
	batch, err := source.JSON(http.MaxBytesReader(w, r.Body, maxEvaluateBody))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, pipeline.DryRun(batch, s.rules))
}
