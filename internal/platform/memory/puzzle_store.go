package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/store"
)

// PuzzleStore implements store.PuzzleStore in memory.
type PuzzleStore struct {
	s session
}

var _ store.PuzzleStore = (*PuzzleStore)(nil)

// CreateIfAbsent implements store.PuzzleStore.CreateIfAbsent
func (p *PuzzleStore) CreateIfAbsent(ctx context.Context, puzzle *domain.Puzzle) error {
	if err := puzzle.Validate(); err != nil {
		return err
	}
	return p.s.run(func(d *data) error {
		if _, ok := d.puzzlesByDate[puzzle.Date]; ok {
			return nil
		}
		cp := *puzzle
		d.puzzlesByDate[puzzle.Date] = &cp
		return nil
	})
}

// GetByDate implements store.PuzzleStore.GetByDate
func (p *PuzzleStore) GetByDate(ctx context.Context, date domain.Date) (*domain.Puzzle, error) {
	var out *domain.Puzzle
	err := p.s.run(func(d *data) error {
		found, ok := d.puzzlesByDate[date]
		if !ok {
			return store.ErrPuzzleNotFound
		}
		cp := *found
		out = &cp
		return nil
	})
	return out, err
}

// GetByID implements store.PuzzleStore.GetByID
func (p *PuzzleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Puzzle, error) {
	var out *domain.Puzzle
	err := p.s.run(func(d *data) error {
		for _, found := range d.puzzlesByDate {
			if found.ID == id {
				cp := *found
				out = &cp
				return nil
			}
		}
		return store.ErrPuzzleNotFound
	})
	return out, err
}
