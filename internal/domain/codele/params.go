package codele

import (
	"time"

	"github.com/phrazzld/codele-api/internal/domain"
)

// Params defines the configurable rules of the game.
type Params struct {
	// Board shape
	WordLength  int
	MaxAttempts int

	// Selection
	LookbackDays  int
	SelectionSeed string
	LaunchDate    domain.Date

	// Guess acceptance
	EnforceDictionary bool

	// Leaderboard coins-equivalent per win
	CoinsPerWin int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		WordLength:        5,
		MaxAttempts:       6,
		LookbackDays:      365,
		SelectionSeed:     "codele",
		LaunchDate:        domain.NewDate(2024, time.January, 1),
		EnforceDictionary: true,
		CoinsPerWin:       10,
	}
}

// ParamsConfig allows overriding the default parameters.
// Zero values and nil pointers keep the default.
type ParamsConfig struct {
	WordLength        int
	MaxAttempts       int
	LookbackDays      *int
	SelectionSeed     string
	LaunchDate        domain.Date
	EnforceDictionary *bool
	CoinsPerWin       *int
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.WordLength > 0 {
		params.WordLength = config.WordLength
	}
	if config.MaxAttempts > 0 {
		params.MaxAttempts = config.MaxAttempts
	}
	if config.LookbackDays != nil {
		params.LookbackDays = *config.LookbackDays
	}
	if config.SelectionSeed != "" {
		params.SelectionSeed = config.SelectionSeed
	}
	if !config.LaunchDate.IsZero() {
		params.LaunchDate = config.LaunchDate
	}
	if config.EnforceDictionary != nil {
		params.EnforceDictionary = *config.EnforceDictionary
	}
	if config.CoinsPerWin != nil {
		params.CoinsPerWin = *config.CoinsPerWin
	}

	return params
}
