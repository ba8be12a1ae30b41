package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"logistics_router/pkg/obs"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logistics_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "logistics_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
	}, []string{"route"})

	httpRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logistics_http_rejected_total",
		Help: "Requests rejected by the concurrency limiter",
	})
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	MaxConcurrent  int
	CORSOrigin     string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(addr string) ServerConfig {
	return ServerConfig{
		Addr:           addr,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   20 * time.Second,
		RequestTimeout: 15 * time.Second,
		MaxConcurrent:  runtime.NumCPU() * 2,
		CORSOrigin:     "",
	}
}

// NewServer creates an HTTP server with all routes and middleware.
func NewServer(cfg ServerConfig, handlers *Handlers) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      NewMux(cfg, handlers),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// NewMux registers all routes.
func NewMux(cfg ServerConfig, handlers *Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	// Concurrency limiter.
	sem := make(chan struct{}, cfg.MaxConcurrent)

	route := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, withMiddleware(pattern, h, sem, cfg))
	}
	route("POST /api/v1/networks", handlers.HandleCreateNetwork)
	route("GET /api/v1/runs", handlers.HandleListRuns)
	route("GET /api/v1/runs/{id}", handlers.HandleGetRun)
	route("GET /api/v1/health", handlers.HandleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

// ListenAndServe starts the server and blocks until shutdown signal.
func ListenAndServe(srv *http.Server) error {
	// Graceful shutdown on SIGTERM/SIGINT.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("Received %s, shutting down...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

// statusWriter captures the final status code and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// withMiddleware wraps a handler with request ids, logging, metrics,
// recovery, security headers, and concurrency limiting.
func withMiddleware(route string, handler http.HandlerFunc, sem chan struct{}, cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}

		// Security headers.
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("X-Request-ID", reqID)

		// CORS.
		if cfg.CORSOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSOrigin)
		}

		// Concurrency limiter.
		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
		default:
			httpRejected.Inc()
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusServiceUnavailable, "service_unavailable", "", "")
			return
		}

		sw := &statusWriter{ResponseWriter: w}
		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("req_id=%s panic: %v", reqID, rec)
				writeError(sw, http.StatusInternalServerError, "internal_error", "", "")
			}

			dur := time.Since(start)
			httpRequestsTotal.WithLabelValues(route, strconv.Itoa(sw.status)).Inc()
			httpRequestDuration.WithLabelValues(route).Observe(dur.Seconds())
			log.Printf("req_id=%s method=%s path=%s status=%d bytes=%d dur=%dms",
				reqID, r.Method, r.URL.RequestURI(), sw.status, sw.bytes, dur.Milliseconds())
		}()

		// Request timeout.
		ctx, cancel := context.WithTimeout(obs.WithRequestID(r.Context(), reqID), cfg.RequestTimeout)
		defer cancel()

		handler(sw, r.WithContext(ctx))
	}
}
