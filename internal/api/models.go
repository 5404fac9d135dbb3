package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/codele-api/internal/domain"
	"github.com/phrazzld/codele-api/internal/domain/codele"
	"github.com/phrazzld/codele-api/internal/service"
)

// GuessRequest is the body of both guess endpoints.
type GuessRequest struct {
	Guess string `json:"guess" validate:"required,max=32"`

	// ExpectedVersion, when set, must equal the session version the client
	// last saw.
	ExpectedVersion *int `json:"expected_version,omitempty" validate:"omitempty,gte=0"`
}

// PuzzleResponse is puzzle metadata. It never carries the solution.
type PuzzleResponse struct {
	ID          uuid.UUID   `json:"id"`
	Date        domain.Date `json:"date"`
	Number      int         `json:"number"`
	WordLength  int         `json:"word_length"`
	MaxAttempts int         `json:"max_attempts"`
}

// GuessResponse is one scored guess.
type GuessResponse struct {
	Text       string               `json:"text"`
	Evaluation []domain.LetterState `json:"evaluation"`
}

// SessionResponse is the client view of an attempt session.
type SessionResponse struct {
	ID                uuid.UUID                     `json:"id"`
	Puzzle            PuzzleResponse                `json:"puzzle"`
	Status            domain.AttemptStatus          `json:"status"`
	Practice          bool                          `json:"practice"`
	Guesses           []GuessResponse               `json:"guesses"`
	RemainingAttempts int                           `json:"remaining_attempts"`
	Keyboard          map[string]domain.LetterState `json:"keyboard"`
	Version           int                           `json:"version"`
	StartedAt         *time.Time                    `json:"started_at,omitempty"`
	CompletedAt       *time.Time                    `json:"completed_at,omitempty"`

	// Solution is set only once the session is won or lost.
	Solution string `json:"solution,omitempty"`
}

// TodayResponse is today's puzzle and the caller's ranked session, which is
// absent before the first guess.
type TodayResponse struct {
	Puzzle  PuzzleResponse   `json:"puzzle"`
	Session *SessionResponse `json:"session"`
}

// CalendarResponse is the calendar read model.
type CalendarResponse struct {
	From *domain.Date          `json:"from,omitempty"`
	To   *domain.Date          `json:"to,omitempty"`
	Days []service.CalendarDay `json:"days"`
}

// StatsResponse is a user's ranked statistics.
type StatsResponse struct {
	GamesPlayed       int          `json:"games_played"`
	Wins              int          `json:"wins"`
	WinRate           float64      `json:"win_rate"`
	CurrentStreak     int          `json:"current_streak"`
	MaxStreak         int          `json:"max_streak"`
	GuessDistribution []int        `json:"guess_distribution"`
	LastCompletedDate *domain.Date `json:"last_completed_date,omitempty"`
	AvgSolveTimeMs    int64        `json:"avg_solve_time_ms"`
}

// LeaderboardEntryResponse is one leaderboard row.
type LeaderboardEntryResponse struct {
	Rank          int       `json:"rank"`
	UserID        uuid.UUID `json:"user_id"`
	WinRate       float64   `json:"win_rate"`
	CurrentStreak int       `json:"current_streak"`
	AvgTimeMs     int64     `json:"avg_time_ms"`
	GamesPlayed   int       `json:"games_played"`
	Wins          int       `json:"wins"`
	Coins         int       `json:"coins"`
}

// LeaderboardResponse is one page of a leaderboard snapshot.
type LeaderboardResponse struct {
	Metric     domain.LeaderboardMetric   `json:"metric"`
	Period     domain.LeaderboardPeriod   `json:"period"`
	Page       int                        `json:"page"`
	PageSize   int                        `json:"page_size"`
	Total      int                        `json:"total"`
	ComputedAt *time.Time                 `json:"computed_at,omitempty"`
	Entries    []LeaderboardEntryResponse `json:"entries"`
	Me         *LeaderboardEntryResponse  `json:"me,omitempty"`
}

func puzzleToResponse(p *domain.Puzzle, maxAttempts int) PuzzleResponse {
	return PuzzleResponse{
		ID:          p.ID,
		Date:        p.Date,
		Number:      p.Number,
		WordLength:  len(p.Solution),
		MaxAttempts: maxAttempts,
	}
}

func sessionToResponse(s *service.Session, maxAttempts int) *SessionResponse {
	a := s.Attempt
	guesses := make([]GuessResponse, 0, len(a.Guesses))
	for _, g := range a.Guesses {
		guesses = append(guesses, GuessResponse{Text: g.Text, Evaluation: g.Evaluation})
	}

	resp := &SessionResponse{
		ID:                a.ID,
		Puzzle:            puzzleToResponse(s.Puzzle, maxAttempts),
		Status:            a.Status,
		Practice:          a.IsPractice,
		Guesses:           guesses,
		RemainingAttempts: max(maxAttempts-len(a.Guesses), 0),
		Keyboard:          codele.KeyboardHints(a.Guesses),
		Version:           a.Version,
		StartedAt:         a.StartedAt,
		CompletedAt:       a.CompletedAt,
	}
	if a.Status.IsTerminal() {
		resp.Solution = s.Puzzle.Solution
	}
	return resp
}

func statsToResponse(s *domain.UserStats) StatsResponse {
	return StatsResponse{
		GamesPlayed:       s.GamesPlayed,
		Wins:              s.Wins,
		WinRate:           s.WinRate(),
		CurrentStreak:     s.CurrentStreak,
		MaxStreak:         s.MaxStreak,
		GuessDistribution: s.GuessDistribution,
		LastCompletedDate: s.LastCompletedDate,
		AvgSolveTimeMs:    s.AverageSolveTime().Milliseconds(),
	}
}

func entryToResponse(e *domain.LeaderboardEntry) LeaderboardEntryResponse {
	return LeaderboardEntryResponse{
		Rank:          e.Rank,
		UserID:        e.UserID,
		WinRate:       e.WinRate,
		CurrentStreak: e.CurrentStreak,
		AvgTimeMs:     e.AvgTime.Milliseconds(),
		GamesPlayed:   e.GamesPlayed,
		Wins:          e.Wins,
		Coins:         e.Coins,
	}
}

func leaderboardToResponse(p *service.LeaderboardPage) LeaderboardResponse {
	entries := make([]LeaderboardEntryResponse, 0, len(p.Entries))
	for i := range p.Entries {
		entries = append(entries, entryToResponse(&p.Entries[i]))
	}
	resp := LeaderboardResponse{
		Metric:     p.Metric,
		Period:     p.Period,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		ComputedAt: p.ComputedAt,
		Entries:    entries,
	}
	if p.Me != nil {
		me := entryToResponse(p.Me)
		resp.Me = &me
	}
	return resp
}
