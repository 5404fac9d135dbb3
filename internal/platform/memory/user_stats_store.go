package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/store"
)

// UserStatsStore implements store.UserStatsStore in memory.
type UserStatsStore struct {
	s session
}

var _ store.UserStatsStore = (*UserStatsStore)(nil)

// Get implements store.UserStatsStore.Get
func (u *UserStatsStore) Get(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	var out *domain.UserStats
	err := u.s.run(func(d *data) error {
		st, ok := d.stats[userID]
		if !ok {
			return store.ErrUserStatsNotFound
		}
		out = st.Clone()
		return nil
	})
	return out, err
}

// GetForUpdate implements store.UserStatsStore.GetForUpdate.
// Transactions are already serialized, so it is equivalent to Get.
func (u *UserStatsStore) GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	return u.Get(ctx, userID)
}

// Upsert implements store.UserStatsStore.Upsert
func (u *UserStatsStore) Upsert(ctx context.Context, stats *domain.UserStats) error {
	if err := stats.Validate(); err != nil {
		return err
	}
	return u.s.run(func(d *data) error {
		d.stats[stats.UserID] = stats.Clone()
		return nil
	})
}
