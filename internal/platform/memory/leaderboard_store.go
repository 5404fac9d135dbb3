package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/store"
)

// LeaderboardStore implements store.LeaderboardStore in memory.
type LeaderboardStore struct {
	s session
}

var _ store.LeaderboardStore = (*LeaderboardStore)(nil)

// Replace implements store.LeaderboardStore.Replace
func (l *LeaderboardStore) Replace(
	ctx context.Context,
	metric domain.LeaderboardMetric,
	period domain.LeaderboardPeriod,
	entries []domain.LeaderboardEntry,
) error {
	return l.s.run(func(d *data) error {
		d.boards[boardKey{metric, period}] = append([]domain.LeaderboardEntry(nil), entries...)
		return nil
	})
}

// Page implements store.LeaderboardStore.Page
func (l *LeaderboardStore) Page(
	ctx context.Context,
	metric domain.LeaderboardMetric,
	period domain.LeaderboardPeriod,
	offset, limit int,
) ([]domain.LeaderboardEntry, int, time.Time, error) {
	if offset < 0 || limit < 0 {
		return nil, 0, time.Time{}, store.ErrInvalidPageWindow
	}
	var (
		page       []domain.LeaderboardEntry
		total      int
		computedAt time.Time
	)
	err := l.s.run(func(d *data) error {
		entries := d.boards[boardKey{metric, period}]
		total = len(entries)
		if total > 0 {
			computedAt = entries[0].ComputedAt
		}
		if offset >= total {
			page = []domain.LeaderboardEntry{}
			return nil
		}
		end := min(offset+limit, total)
		page = append([]domain.LeaderboardEntry(nil), entries[offset:end]...)
		return nil
	})
	return page, total, computedAt, err
}

// GetEntry implements store.LeaderboardStore.GetEntry
func (l *LeaderboardStore) GetEntry(
	ctx context.Context,
	metric domain.LeaderboardMetric,
	period domain.LeaderboardPeriod,
	userID uuid.UUID,
) (*domain.LeaderboardEntry, error) {
	var out *domain.LeaderboardEntry
	err := l.s.run(func(d *data) error {
		for _, e := range d.boards[boardKey{metric, period}] {
			if e.UserID == userID {
				cp := e
				out = &cp
				return nil
			}
		}
		return store.ErrLeaderboardEntryNotFound
	})
	return out, err
}
