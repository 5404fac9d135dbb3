package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// UserStats-specific errors
var (
	ErrStatsUserIDEmpty     = errors.New("stats user ID cannot be empty")
	ErrStatsAttemptMismatch = errors.New("attempt belongs to a different user")
	ErrStatsPracticeAttempt = errors.New("practice attempts do not count towards stats")
)

// UserStats aggregates a user's ranked play.
//
// GuessDistribution[i] counts wins that took i+1 guesses.
type UserStats struct {
	UserID            uuid.UUID     `json:"user_id"`
	GamesPlayed       int           `json:"games_played"`
	Wins              int           `json:"wins"`
	CurrentStreak     int           `json:"current_streak"`
	MaxStreak         int           `json:"max_streak"`
	GuessDistribution []int         `json:"guess_distribution"`
	LastCompletedDate *Date         `json:"last_completed_date,omitempty"`
	TotalSolveTime    time.Duration `json:"-"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// NewUserStats returns empty stats for userID with a distribution of maxAttempts buckets.
func NewUserStats(userID uuid.UUID, maxAttempts int, now time.Time) *UserStats {
	return &UserStats{
		UserID:            userID,
		GuessDistribution: make([]int, maxAttempts),
		UpdatedAt:         now.UTC(),
	}
}

// Validate checks if the UserStats has valid data.
func (s *UserStats) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrStatsUserIDEmpty
	}
	return nil
}

// ApplyCompletion folds one terminal ranked attempt into the stats.
// The caller guarantees it is applied once per attempt.
func (s *UserStats) ApplyCompletion(a *Attempt, now time.Time) error {
	if !a.Status.IsTerminal() {
		return ErrSessionNotFinished
	}
	if a.IsPractice {
		return ErrStatsPracticeAttempt
	}
	if a.UserID != s.UserID {
		return ErrStatsAttemptMismatch
	}

	s.GamesPlayed++
	if a.Status == AttemptWon {
		s.Wins++
		s.CurrentStreak++
		if s.CurrentStreak > s.MaxStreak {
			s.MaxStreak = s.CurrentStreak
		}
		n := len(a.Guesses)
		for len(s.GuessDistribution) < n {
			s.GuessDistribution = append(s.GuessDistribution, 0)
		}
		s.GuessDistribution[n-1]++
		s.TotalSolveTime += a.SolveDuration()
	} else {
		s.CurrentStreak = 0
	}

	if s.LastCompletedDate == nil || a.PuzzleDate.After(*s.LastCompletedDate) {
		d := a.PuzzleDate
		s.LastCompletedDate = &d
	}
	s.UpdatedAt = now.UTC()
	return nil
}

// WinRate returns wins divided by games played, or 0 with no games.
func (s *UserStats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed)
}

// AverageSolveTime returns the mean time-to-solve across wins.
func (s *UserStats) AverageSolveTime() time.Duration {
	if s.Wins == 0 {
		return 0
	}
	return s.TotalSolveTime / time.Duration(s.Wins)
}

// Clone returns a deep copy of the stats.
func (s *UserStats) Clone() *UserStats {
	c := *s
	c.GuessDistribution = append([]int(nil), s.GuessDistribution...)
	if s.LastCompletedDate != nil {
		d := *s.LastCompletedDate
		c.LastCompletedDate = &d
	}
	return &c
}
