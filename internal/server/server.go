// Package server exposes the parallel sort over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/parsort/internal/errors"
	"github.com/agbru/parsort/internal/logging"
	"github.com/agbru/parsort/internal/sorting"
)

const (
	// DefaultRequestTimeout bounds a single sort request.
	DefaultRequestTimeout = 2 * time.Minute
	// DefaultShutdownTimeout bounds the graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second
)

// Config holds the server settings.
type Config struct {
	Addr            string
	Parallelism     int
	Pivot           sorting.PivotStrategy
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	Security        SecurityConfig
}

// SortRequest is the body of POST /v1/sort. Partitions forces the partition
// count; zero selects the automatic plan.
type SortRequest struct {
	Values     []float64 `json:"values"`
	Partitions int       `json:"partitions"`
}

// SortResponse is the body of a successful POST /v1/sort.
type SortResponse struct {
	Values     []float64 `json:"values"`
	Partitions int       `json:"partitions"`
	DurationMS float64   `json:"duration_ms"`
}

// ErrorResponse is the body of every error reply. Partition names the
// failing partition of a worker failure.
type ErrorResponse struct {
	Error     string `json:"error"`
	Partition *int   `json:"partition,omitempty"`
}

// Server serves sort requests.
type Server struct {
	cfg       Config
	logger    logging.Logger
	zlog      zerolog.Logger
	metrics   *Metrics
	sortOpts  []sorting.Option
	startTime time.Time
}

// NewServer creates a server. opts are applied to every coordinator the
// server builds, after the server's own options.
func NewServer(cfg Config, logger logging.Logger, opts ...sorting.Option) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Security.MaxElements <= 0 {
		cfg.Security = DefaultSecurityConfig()
	}
	if logger == nil {
		logger = logging.NewZerologAdapter(zerolog.Nop())
	}
	s := &Server{
		cfg:       cfg,
		logger:    logger,
		zlog:      zerolog.Nop(),
		metrics:   NewMetrics(),
		sortOpts:  opts,
		startTime: time.Now(),
	}
	if za, ok := logger.(*logging.ZerologAdapter); ok {
		s.zlog = za.Zerolog()
	}
	return s
}

// Handler returns the server's routes wrapped in the security and metrics
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/sort", s.wrap(s.handleSort))
	mux.HandleFunc("/health", s.wrap(s.handleHealth))
	mux.HandleFunc("/metrics", s.wrap(s.handleMetrics))
	return mux
}

func (s *Server) wrap(h http.HandlerFunc) http.HandlerFunc {
	return SecurityMiddleware(s.cfg.Security, s.metricsMiddleware(h))
}

// Start listens on the configured address and serves until ctx is done,
// then shuts down gracefully. It returns nil after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("server started", logging.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.metrics.RecordRequest(r.URL.Path, rec.status)
	}
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	var req SortRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.Security.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}
	if len(req.Values) > s.cfg.Security.MaxElements {
		s.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("too many values: %d (max %d)", len(req.Values), s.cfg.Security.MaxElements), nil)
		return
	}
	if req.Partitions < 0 {
		s.writeError(w, http.StatusBadRequest, "partitions must be >= 0", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	c := s.coordinator(req.Partitions)
	start := time.Now()
	sorted, err := c.Sort(ctx, req.Values)
	elapsed := time.Since(start)
	if err != nil {
		s.writeSortError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, SortResponse{
		Values:     sorted,
		Partitions: len(c.Plan(len(req.Values))),
		DurationMS: float64(elapsed.Microseconds()) / 1000,
	})
}

func (s *Server) coordinator(partitions int) *sorting.Coordinator[float64] {
	opts := []sorting.Option{
		sorting.WithParallelism(s.cfg.Parallelism),
		sorting.WithPartitions(partitions),
		sorting.WithPivot(s.cfg.Pivot),
		sorting.WithLogger(s.zlog),
		sorting.WithObserver(s.metrics.Sort),
	}
	return sorting.New[float64](append(opts, s.sortOpts...)...)
}

func (s *Server) writeSortError(w http.ResponseWriter, err error) {
	var (
		validationErr apperrors.ValidationError
		partErr       *apperrors.PartitionError
	)
	switch {
	case errors.As(err, &validationErr):
		s.writeError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.As(err, &partErr):
		s.logger.Error("sort failed", err, logging.Int("partition", partErr.Partition))
		s.writeError(w, http.StatusInternalServerError, err.Error(), &partErr.Partition)
	case errors.Is(err, context.DeadlineExceeded):
		s.writeError(w, http.StatusGatewayTimeout, err.Error(), nil)
	case errors.Is(err, context.Canceled):
		s.writeError(w, http.StatusServiceUnavailable, err.Error(), nil)
	default:
		s.logger.Error("sort failed", err)
		s.writeError(w, http.StatusInternalServerError, err.Error(), nil)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(s.startTime).Seconds()),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	s.metrics.WritePrometheus(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && s.logger != nil {
		s.logger.Error("encode response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string, partition *int) {
	if s.logger != nil {
		s.logger.Debug("request rejected", logging.Int("status", status), logging.String("error", msg))
	}
	s.writeJSON(w, status, ErrorResponse{Error: msg, Partition: partition})
}
