package codele

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/phrazzld/codele-api/internal/domain"
)

// Selector maps calendar dates to puzzles.
//
// The corpus is shuffled once into a fixed permutation and the permutation is
// walked by day number, wrapping around. Every word therefore recurs exactly
// every Size() days, and no two dates closer than that share a word.
type Selector struct {
	corpus *Corpus
	order  []int
	launch domain.Date
}

// NewSelector creates a Selector over corpus.
// It fails with domain.ErrCorpusExhausted when the corpus cannot cover lookbackDays.
func NewSelector(corpus *Corpus, seed string, lookbackDays int, launch domain.Date) (*Selector, error) {
	if corpus.Size() < lookbackDays {
		return nil, fmt.Errorf("%w: %d words for a %d day window",
			domain.ErrCorpusExhausted, corpus.Size(), lookbackDays)
	}

	sum := sha256.Sum256([]byte(seed))
	rng := rand.New(rand.NewPCG(
		binary.BigEndian.Uint64(sum[0:8]),
		binary.BigEndian.Uint64(sum[8:16]),
	))

	order := make([]int, corpus.Size())
	for i := range order {
		order[i] = i
	}
	for i := len(order) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		order[i], order[j] = order[j], order[i]
	}

	return &Selector{corpus: corpus, order: order, launch: launch}, nil
}

// NewSelectorFromParams creates a Selector using the selection fields of params.
func NewSelectorFromParams(corpus *Corpus, params *Params) (*Selector, error) {
	return NewSelector(corpus, params.SelectionSeed, params.LookbackDays, params.LaunchDate)
}

// Word returns the solution word for date.
func (s *Selector) Word(date domain.Date) string {
	n := int64(len(s.order))
	idx := ((date.DayNumber() % n) + n) % n
	return s.corpus.Solution(s.order[idx])
}

// Number returns the 1-based puzzle number of date counted from launch.
func (s *Selector) Number(date domain.Date) int {
	return s.launch.DaysUntil(date) + 1
}

// Launch returns the first playable date.
func (s *Selector) Launch() domain.Date { return s.launch }

// Select returns the puzzle for date. Dates before launch have no puzzle.
// CreatedAt is left zero for the caller to stamp on persistence.
func (s *Selector) Select(date domain.Date) (*domain.Puzzle, error) {
	if date.Before(s.launch) {
		return nil, domain.ErrPuzzleNotAvailable
	}
	return &domain.Puzzle{
		ID:       domain.PuzzleIDForDate(date),
		Date:     date,
		Number:   s.Number(date),
		Solution: s.Word(date),
	}, nil
}
