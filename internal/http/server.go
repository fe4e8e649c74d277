// Package http exposes the projection and spending-analysis API as JSON
// endpoints.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"nestegg/internal/cache"
	"nestegg/internal/core"
	applog "nestegg/internal/log"
	"nestegg/internal/services"
)

type Server struct {
	http.Server
	service     *services.SimulationService
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	// Simulation runs are deterministic for a given input, so responses
	// are cached per request payload.
	simulationCache *cache.LRUCache[core.SimulationResult]
	analysisCache   *cache.LRUCache[core.SpendingAnalysis]
	cacheManager    *cache.Manager
	requestLog      *applog.StructuredLogger

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, service *services.SimulationService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		service:         service,
		rateLimiter:     newRateLimiter(60),
		metrics:         &securityMetrics{},
		simulationCache: cache.NewLRUCache[core.SimulationResult](100, 5*time.Minute),
		analysisCache:   cache.NewLRUCache[core.SpendingAnalysis](200, 5*time.Minute),
		cacheManager:    cache.NewManager(),
		requestLog:      applog.NewStructuredLogger(applog.New(applog.Config{Component: applog.ComponentHTTP})),
	}

	s.cacheManager.Register(s.simulationCache)
	s.cacheManager.Register(s.analysisCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/v1/simulate", s.withSecurityHeaders(s.handleSimulate))
	mux.HandleFunc("/api/v1/analyze", s.withSecurityHeaders(s.handleAnalyze))
	mux.HandleFunc("/api/v1/reductions", s.withSecurityHeaders(s.handleReductions))
	mux.HandleFunc("/api/v1/scenarios/aggressive", s.withSecurityHeaders(s.handleAggressiveScenario))
	mux.HandleFunc("/api/v1/chart", s.withSecurityHeaders(s.handleChart))
	mux.HandleFunc("/api/v1/snapshot", s.withSecurityHeaders(s.handleSnapshot))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r, s.metrics)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		s.requestLog.LogHTTPStart(ctx, r, clientIP)

		if detectSuspiciousRequest(r, s.metrics) {
			slog.WarnContext(ctx, "Suspicious request detected",
				"client_ip", clientIP, "url", r.URL.Path)
		}

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.requestLog.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
