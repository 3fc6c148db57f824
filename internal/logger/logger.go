// Package logger provides the JSON structured logger used by every service.
package logger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"os"
	"runtime/debug"
	"time"
)

type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

// New creates a logger tagged with the service name.
func New(service string) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// GenerateRequestID returns a random identifier for correlating log entries
// of a single request.
func GenerateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "req_unknown"
	}
	return "req_" + hex.EncodeToString(buf)
}

func (l *Logger) Info(action, requestID, message string, details map[string]interface{}) {
	l.log(slog.LevelInfo, action, requestID, message, nil, details)
}

func (l *Logger) Debug(action, requestID, message string, details map[string]interface{}) {
	l.log(slog.LevelDebug, action, requestID, message, nil, details)
}

func (l *Logger) Error(action, requestID, message string, err error, details map[string]interface{}) {
	l.log(slog.LevelError, action, requestID, message, err, details)
}

func (l *Logger) log(level slog.Level, action, requestID, message string, err error, details map[string]interface{}) {
	attrs := []slog.Attr{
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
		slog.String("request_id", requestID),
	}

	if err != nil {
		attrs = append(attrs, slog.Group("error",
			slog.String("msg", err.Error()),
			slog.String("stack", string(debug.Stack())),
		))
	}

	if details != nil {
		attrs = append(attrs, slog.Any("details", details))
	}

	l.handler.LogAttrs(context.TODO(), level, message, attrs...)
}
