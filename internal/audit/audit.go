// SPDX-License-Identifier: MIT

// Package audit provides structured audit logging for security-sensitive operations.
// It follows the WHO/WHAT/WHEN pattern for compliance and forensics.
package audit

import (
	"context"
	"os/user"
	"strconv"
	"time"

	"github.com/ManuGH/devsecrets/internal/log"
	"github.com/rs/zerolog"
)

// EventType represents the type of audit event.
type EventType string

const (
	// Secrets file events
	EventSecretsWrite        EventType = "secrets.write"
	EventSecretsWriteRefused EventType = "secrets.write.refused"
	EventSecretsWriteError   EventType = "secrets.write.error"

	// Disclosure events
	EventSecretsReveal EventType = "secrets.reveal"
)

// Result values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultDenied  = "denied"
)

// Event represents a structured audit event.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	Type      EventType         `json:"type"`
	Actor     string            `json:"actor"`             // WHO: local user or "system"
	Action    string            `json:"action"`            // WHAT: human-readable action description
	Resource  string            `json:"resource"`          // Secrets file path or "environment"
	Result    string            `json:"result"`            // success, failure, denied
	Command   string            `json:"command,omitempty"` // CLI command that triggered the event
	Details   map[string]string `json:"details,omitempty"` // Additional context, never secret values
}

// Logger provides audit logging functionality.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger creates a new audit logger with a dedicated "audit" component.
func NewLogger() *Logger {
	auditLogger := log.Derive(func(c *zerolog.Context) {
		*c = c.Str(log.FieldComponent, "audit").Str("log_type", "audit")
	})

	return &Logger{
		logger: auditLogger,
	}
}

// Log writes an audit event. Audit events bypass the configured log level.
func (l *Logger) Log(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	logEvent := l.logger.Log().
		Time("timestamp", event.Timestamp).
		Str("event_type", string(event.Type)).
		Str("actor", event.Actor).
		Str("action", event.Action).
		Str("resource", event.Resource).
		Str("result", event.Result)

	if event.Command != "" {
		logEvent.Str(log.FieldCommand, event.Command)
	}
	for key, value := range event.Details {
		logEvent.Str(key, value)
	}

	logEvent.Msg("audit event")
}

// LogFromContext logs an audit event, filling the command name from ctx.
func (l *Logger) LogFromContext(ctx context.Context, event Event) {
	if event.Command == "" {
		event.Command = log.CommandFromContext(ctx)
	}
	if event.Actor == "" {
		event.Actor = CurrentActor()
	}
	l.Log(event)
}

// SecretsWritten logs a successful secrets file write.
func (l *Logger) SecretsWritten(ctx context.Context, path, format string, keys int) {
	l.LogFromContext(ctx, Event{
		Type:     EventSecretsWrite,
		Action:   "wrote secrets file",
		Resource: path,
		Result:   ResultSuccess,
		Details: map[string]string{
			"format": format,
			"keys":   strconv.Itoa(keys),
		},
	})
}

// WriteRefused logs a write that was refused before touching the file.
func (l *Logger) WriteRefused(ctx context.Context, path, reason string) {
	l.LogFromContext(ctx, Event{
		Type:     EventSecretsWriteRefused,
		Action:   "refused to write secrets file",
		Resource: path,
		Result:   ResultDenied,
		Details: map[string]string{
			"reason": reason,
		},
	})
}

// WriteFailed logs a secrets file write that failed.
func (l *Logger) WriteFailed(ctx context.Context, path string, err error) {
	l.LogFromContext(ctx, Event{
		Type:     EventSecretsWriteError,
		Action:   "secrets file write failed",
		Resource: path,
		Result:   ResultFailure,
		Details: map[string]string{
			"error": err.Error(),
		},
	})
}

// SecretsRevealed logs that sensitive values were printed unmasked.
func (l *Logger) SecretsRevealed(ctx context.Context, source string, sensitive int) {
	l.LogFromContext(ctx, Event{
		Type:     EventSecretsReveal,
		Action:   "printed unmasked secrets",
		Resource: source,
		Result:   ResultSuccess,
		Details: map[string]string{
			"sensitive_keys": strconv.Itoa(sensitive),
		},
	})
}

// CurrentActor returns the local user name, or "system" when it cannot be determined.
func CurrentActor() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "system"
}
