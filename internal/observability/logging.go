// Package observability provides logging and metrics.
package observability

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// CorrelationID is the context key carrying the request correlation id.
const CorrelationID LogContextKey = "correlation_id"

// WithCorrelationID returns a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationID, id)
}

// ExtractCorrelationID retrieves the correlation ID from the context.
func ExtractCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationID).(string); ok {
		return id
	}
	return ""
}

// RepoLogger provides structured logging for repository operations.
type RepoLogger struct {
	store  string
	logger *Logger
}

// NewRepoLogger creates a new RepoLogger for the given store name.
func NewRepoLogger(store string) *RepoLogger {
	return &RepoLogger{store: store, logger: GlobalLogger}
}

// LogError logs a repository error.
func (l *RepoLogger) LogError(ctx context.Context, err error, operation string) {
	l.logger.ErrorContext(ctx, "repository error",
		slog.String("store", l.store),
		slog.String("operation", operation),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
		slog.String("error", err.Error()),
	)
}

// WSLogger provides structured logging for the realtime fan-out.
type WSLogger struct {
	hubName string
	logger  *Logger
}

// NewWSLogger creates a new WSLogger for the given hub.
func NewWSLogger(hubName string) *WSLogger {
	return &WSLogger{hubName: hubName, logger: GlobalLogger}
}

// LogConnect logs a connection registration.
func (l *WSLogger) LogConnect(ctx context.Context, connID string, total int) {
	l.logger.InfoContext(ctx, "websocket connected",
		slog.String("hub", l.hubName),
		slog.String("conn_id", connID),
		slog.Int("total_connections", total),
	)
}

// LogDisconnect logs a connection removal.
func (l *WSLogger) LogDisconnect(ctx context.Context, connID string, reason string, total int) {
	l.logger.InfoContext(ctx, "websocket disconnected",
		slog.String("hub", l.hubName),
		slog.String("conn_id", connID),
		slog.String("reason", reason),
		slog.Int("total_connections", total),
	)
}

// LogDeliveryError logs a failed delivery attempt to one connection.
func (l *WSLogger) LogDeliveryError(ctx context.Context, connID string, err error) {
	l.logger.ErrorContext(ctx, "websocket delivery error",
		slog.String("hub", l.hubName),
		slog.String("conn_id", connID),
		slog.String("error", err.Error()),
	)
}

// LogBroadcast logs a completed fan-out.
func (l *WSLogger) LogBroadcast(ctx context.Context, event string, delivered, evicted int) {
	l.logger.InfoContext(ctx, "websocket broadcast",
		slog.String("hub", l.hubName),
		slog.String("event", event),
		slog.Int("delivered", delivered),
		slog.Int("evicted", evicted),
	)
}
