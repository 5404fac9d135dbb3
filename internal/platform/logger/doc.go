// Package logger builds the service's JSON slog logger and carries
// request-scoped loggers (trace_id, user_id) through context.Context.
package logger
