// Package postgres stores puzzles, attempt sessions, stats and leaderboard
// snapshots in PostgreSQL through database/sql and the pgx driver. Schema
// changes are embedded goose migrations applied by Migrate.
package postgres
