// Package codele implements the pure rules of the Daily Codele puzzle:
// the embedded word corpus, deterministic date-to-word selection, two-pass
// guess evaluation, keyboard hints, share text encoding and leaderboard ranking.
//
// Nothing in this package performs I/O or reads the wall clock; callers supply
// dates and times explicitly so every function is reproducible.
package codele
