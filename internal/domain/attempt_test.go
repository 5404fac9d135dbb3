package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPuzzle(t *testing.T) *Puzzle {
	t.Helper()
	p, err := NewPuzzle(NewDate(2024, time.January, 10), 10, "REACT", time.Now())
	require.NoError(t, err)
	return p
}

func miss() Guess {
	return Guess{Text: "STUMP", Evaluation: []LetterState{
		LetterAbsent, LetterPresent, LetterAbsent, LetterAbsent, LetterAbsent,
	}}
}

func hit() Guess {
	return Guess{Text: "REACT", Evaluation: []LetterState{
		LetterCorrect, LetterCorrect, LetterCorrect, LetterCorrect, LetterCorrect,
	}}
}

func TestNewAttempt(t *testing.T) {
	t.Parallel()

	puzzle := testPuzzle(t)
	userID := uuid.New()

	a, err := NewAttempt(userID, puzzle, false, time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Equal(t, AttemptNotStarted, a.Status)
	assert.Equal(t, puzzle.ID, a.PuzzleID)
	assert.Equal(t, puzzle.Date, a.PuzzleDate)
	assert.Empty(t, a.Guesses)
	assert.Nil(t, a.StartedAt)

	_, err = NewAttempt(uuid.Nil, puzzle, false, time.Now())
	assert.ErrorIs(t, err, ErrAttemptUserIDEmpty)

	_, err = NewAttempt(userID, nil, false, time.Now())
	assert.ErrorIs(t, err, ErrAttemptPuzzleIDEmpty)
}

func TestAttemptAppendGuess(t *testing.T) {
	t.Parallel()

	t.Run("first guess starts the session", func(t *testing.T) {
		a, err := NewAttempt(uuid.New(), testPuzzle(t), false, time.Now())
		require.NoError(t, err)

		now := time.Now()
		require.NoError(t, a.AppendGuess(miss(), 6, now))
		assert.Equal(t, AttemptPlaying, a.Status)
		require.NotNil(t, a.StartedAt)
		assert.True(t, a.StartedAt.Equal(now.UTC()))
		assert.Nil(t, a.CompletedAt)
	})

	t.Run("solved guess wins", func(t *testing.T) {
		a, err := NewAttempt(uuid.New(), testPuzzle(t), false, time.Now())
		require.NoError(t, err)

		start := time.Now()
		require.NoError(t, a.AppendGuess(miss(), 6, start))
		require.NoError(t, a.AppendGuess(hit(), 6, start.Add(90*time.Second)))
		assert.Equal(t, AttemptWon, a.Status)
		require.NotNil(t, a.CompletedAt)
		assert.Equal(t, 90*time.Second, a.SolveDuration())
	})

	t.Run("last miss loses and the session closes", func(t *testing.T) {
		a, err := NewAttempt(uuid.New(), testPuzzle(t), false, time.Now())
		require.NoError(t, err)

		for i := 0; i < 6; i++ {
			require.NoError(t, a.AppendGuess(miss(), 6, time.Now()))
		}
		assert.Equal(t, AttemptLost, a.Status)

		before := a.Clone()
		err = a.AppendGuess(hit(), 6, time.Now())
		assert.ErrorIs(t, err, ErrSessionClosed)
		assert.Equal(t, before, a)
	})

	t.Run("won session rejects further guesses", func(t *testing.T) {
		a, err := NewAttempt(uuid.New(), testPuzzle(t), true, time.Now())
		require.NoError(t, err)

		require.NoError(t, a.AppendGuess(hit(), 6, time.Now()))
		assert.ErrorIs(t, a.AppendGuess(miss(), 6, time.Now()), ErrSessionClosed)
		assert.Len(t, a.Guesses, 1)
	})
}

func TestAttemptValidate(t *testing.T) {
	t.Parallel()

	a, err := NewAttempt(uuid.New(), testPuzzle(t), false, time.Now())
	require.NoError(t, err)

	bad := a.Clone()
	bad.Status = "paused"
	assert.ErrorIs(t, bad.Validate(), ErrAttemptStatusInvalid)

	bad = a.Clone()
	bad.Status = AttemptPlaying
	assert.ErrorIs(t, bad.Validate(), ErrAttemptInconsistent)

	bad = a.Clone()
	bad.Guesses = []Guess{hit()}
	bad.Status = AttemptWon
	assert.ErrorIs(t, bad.Validate(), ErrAttemptInconsistent)
}

func TestAttemptCloneIsDeep(t *testing.T) {
	t.Parallel()

	a, err := NewAttempt(uuid.New(), testPuzzle(t), false, time.Now())
	require.NoError(t, err)
	require.NoError(t, a.AppendGuess(miss(), 6, time.Now()))

	c := a.Clone()
	c.Guesses[0].Evaluation[0] = LetterCorrect
	*c.StartedAt = c.StartedAt.Add(time.Hour)

	assert.Equal(t, LetterAbsent, a.Guesses[0].Evaluation[0])
	assert.NotEqual(t, *a.StartedAt, *c.StartedAt)
}
