// Package service contains the application use cases of the daily puzzle.
// It orchestrates the pure game rules in internal/domain/codele with the
// store interfaces in internal/store.
//
// Key components:
//
//   - PuzzleService materializes the date's puzzle on first request.
//   - AttemptService drives guess submission and session reads.
//   - StatsAggregator folds finished ranked sessions into UserStats
//     exactly once.
//   - ArchiveService serves past puzzles, practice sessions and the calendar.
//   - LeaderboardService recomputes and pages ranked snapshots.
//
// Every mutation runs inside store.Transactor.WithinTx. Events are emitted
// only after the transaction commits.
//
// Services depend on the store interfaces, never on a concrete backend.
package service
