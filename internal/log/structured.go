package log

import (
	"context"
	"log/slog"
	"net/http"
)

// StructuredLogger groups the log lines the API and worker emit on their
// hot paths, so every request and projection run logs the same fields.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogHTTPStart logs the start of an HTTP request.
func (sl *StructuredLogger) LogHTTPStart(ctx context.Context, r *http.Request, clientIP string) {
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent"), r.Header.Get("Referer")).
		WithClientIP(clientIP)

	sl.logger.InfoContext(ctx, "Request started", fields.ToSlice()...)
}

// LogHTTPEnd logs request completion. 4xx responses log at warn and 5xx
// at error so failures stand out without a separate log line.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	switch {
	case statusCode >= 500:
		level = slog.LevelError
	case statusCode >= 400:
		level = slog.LevelWarn
	}

	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "", "").
		WithHTTPResponse(statusCode, durationMs, statusCode < 400).
		WithClientIP(clientIP)

	sl.logger.Logger.Log(ctx, level, "Request completed", fields.ToSlice()...)
}

// LogSimulationRun logs a completed projection run.
func (sl *StructuredLogger) LogSimulationRun(ctx context.Context, userID string, horizonYears int, finalNetWorth int64) {
	fields := NewFields().
		WithSimulation(userID, horizonYears, finalNetWorth).
		WithOperation(OpSimulate)

	sl.logger.InfoContext(ctx, "Simulation completed", fields.ToSlice()...)
}

// LogError logs a failed operation with its error attached.
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, operation string) {
	fields := NewFields().
		WithError(err).
		WithOperation(operation)

	sl.logger.ErrorContext(ctx, msg, fields.ToSlice()...)
}
