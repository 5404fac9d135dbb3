package task

import "context"

// Job names
const (
	JobLeaderboardRecompute = "leaderboard_recompute"
	JobStatsReconcile       = "stats_reconcile"
)

// Job is a unit of periodic background work.
type Job interface {
	// Name identifies the job in logs and in Scheduler.Trigger.
	Name() string

	// Run executes the job once. It should return promptly when ctx is cancelled.
	Run(ctx context.Context) error
}

type funcJob struct {
	name string
	fn   func(ctx context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

// NewJob adapts fn to a Job called name.
func NewJob(name string, fn func(ctx context.Context) error) Job {
	return funcJob{name: name, fn: fn}
}

// LeaderboardRecomputer rebuilds leaderboard snapshots.
type LeaderboardRecomputer interface {
	Recompute(ctx context.Context) error
}

// PendingReconciler redelivers unaggregated sessions.
type PendingReconciler interface {
	ReconcilePending(ctx context.Context, limit int) (int, error)
}

// NewLeaderboardJob returns the job that recomputes every leaderboard snapshot.
func NewLeaderboardJob(r LeaderboardRecomputer) Job {
	return NewJob(JobLeaderboardRecompute, r.Recompute)
}

// NewReconcileJob returns the job that redelivers up to batch unaggregated
// sessions per run.
func NewReconcileJob(r PendingReconciler, batch int) Job {
	return NewJob(JobStatsReconcile, func(ctx context.Context) error {
		_, err := r.ReconcilePending(ctx, batch)
		return err
	})
}
