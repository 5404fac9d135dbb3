package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/store"
)

// AttemptStore implements store.AttemptStore in memory.
type AttemptStore struct {
	s session
}

var _ store.AttemptStore = (*AttemptStore)(nil)

func findRanked(d *data, userID, puzzleID uuid.UUID) *domain.Attempt {
	for _, a := range d.attempts {
		if !a.IsPractice && a.UserID == userID && a.PuzzleID == puzzleID {
			return a
		}
	}
	return nil
}

// Create implements store.AttemptStore.Create
func (s *AttemptStore) Create(ctx context.Context, attempt *domain.Attempt) error {
	if err := attempt.Validate(); err != nil {
		return err
	}
	return s.s.run(func(d *data) error {
		if _, ok := d.attempts[attempt.ID]; ok {
			return store.ErrDuplicate
		}
		if !attempt.IsPractice && findRanked(d, attempt.UserID, attempt.PuzzleID) != nil {
			return store.ErrRankedAttemptExists
		}
		d.attempts[attempt.ID] = attempt.Clone()
		return nil
	})
}

// GetByID implements store.AttemptStore.GetByID
func (s *AttemptStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attempt, error) {
	var out *domain.Attempt
	err := s.s.run(func(d *data) error {
		a, ok := d.attempts[id]
		if !ok {
			return store.ErrAttemptNotFound
		}
		out = a.Clone()
		return nil
	})
	return out, err
}

// GetRanked implements store.AttemptStore.GetRanked
func (s *AttemptStore) GetRanked(ctx context.Context, userID, puzzleID uuid.UUID) (*domain.Attempt, error) {
	var out *domain.Attempt
	err := s.s.run(func(d *data) error {
		a := findRanked(d, userID, puzzleID)
		if a == nil {
			return store.ErrAttemptNotFound
		}
		out = a.Clone()
		return nil
	})
	return out, err
}

// Update implements store.AttemptStore.Update
func (s *AttemptStore) Update(ctx context.Context, attempt *domain.Attempt) error {
	if err := attempt.Validate(); err != nil {
		return err
	}
	return s.s.run(func(d *data) error {
		current, ok := d.attempts[attempt.ID]
		if !ok {
			return store.ErrAttemptNotFound
		}
		if current.Version != attempt.Version {
			return store.ErrVersionConflict
		}
		next := attempt.Clone()
		next.AggregatedAt = current.AggregatedAt
		next.Version++
		d.attempts[attempt.ID] = next
		attempt.Version = next.Version
		return nil
	})
}

// MarkAggregated implements store.AttemptStore.MarkAggregated
func (s *AttemptStore) MarkAggregated(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.s.run(func(d *data) error {
		a, ok := d.attempts[id]
		if !ok {
			return store.ErrAttemptNotFound
		}
		if a.AggregatedAt != nil {
			return store.ErrAlreadyAggregated
		}
		at = at.UTC()
		a.AggregatedAt = &at
		return nil
	})
}

// ListByUser implements store.AttemptStore.ListByUser
func (s *AttemptStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	from, to domain.Date,
) ([]*domain.Attempt, error) {
	var out []*domain.Attempt
	err := s.s.run(func(d *data) error {
		for _, a := range d.attempts {
			if a.UserID == userID && !a.PuzzleDate.Before(from) && !a.PuzzleDate.After(to) {
				out = append(out, a.Clone())
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *domain.Attempt) int {
		if c := a.PuzzleDate.DaysUntil(b.PuzzleDate); c != 0 {
			return -c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, err
}

// ListPendingAggregation implements store.AttemptStore.ListPendingAggregation
func (s *AttemptStore) ListPendingAggregation(ctx context.Context, limit int) ([]*domain.Attempt, error) {
	var out []*domain.Attempt
	err := s.s.run(func(d *data) error {
		for _, a := range d.attempts {
			if !a.IsPractice && a.Status.IsTerminal() && a.AggregatedAt == nil {
				out = append(out, a.Clone())
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *domain.Attempt) int {
		return a.CompletedAt.Compare(*b.CompletedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

// SummarizeRanked implements store.AttemptStore.SummarizeRanked
func (s *AttemptStore) SummarizeRanked(ctx context.Context, from, to domain.Date) ([]domain.PlayerSnapshot, error) {
	byUser := make(map[uuid.UUID]*domain.PlayerSnapshot)
	err := s.s.run(func(d *data) error {
		for _, a := range d.attempts {
			if a.IsPractice || !a.Status.IsTerminal() ||
				a.PuzzleDate.Before(from) || a.PuzzleDate.After(to) {
				continue
			}
			snap, ok := byUser[a.UserID]
			if !ok {
				snap = &domain.PlayerSnapshot{UserID: a.UserID}
				if st, ok := d.stats[a.UserID]; ok {
					snap.CurrentStreak = st.CurrentStreak
				}
				byUser[a.UserID] = snap
			}
			snap.GamesPlayed++
			if a.Status == domain.AttemptWon {
				snap.Wins++
				snap.TotalSolveTime += a.SolveDuration()
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.PlayerSnapshot, 0, len(byUser))
	for _, snap := range byUser {
		out = append(out, *snap)
	}
	return out, nil
}
