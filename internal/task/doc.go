// Package task runs periodic background jobs: leaderboard recompute and
// stats reconciliation. Guess submission never depends on it; jobs only
// rebuild read models and repair missed aggregation.
package task
