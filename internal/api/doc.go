// Package api serves the game over HTTP. Handlers translate requests into
// service calls and map service errors to status codes and sanitized
// messages; they hold no game rules of their own.
package api
