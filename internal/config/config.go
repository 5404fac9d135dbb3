package config

import (
	"fmt"
	"time"

	"github.com/phrazzld/codele-api/internal/domain"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Auth        AuthConfig        `mapstructure:"auth" validate:"required"`
	Game        GameConfig        `mapstructure:"game" validate:"required"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard" validate:"required"`
	Share       ShareConfig       `mapstructure:"share" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port               int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel           string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	GuessRateLimit     float64       `mapstructure:"guess_rate_limit" validate:"gt=0"`
	GuessBurst         int           `mapstructure:"guess_burst" validate:"gt=0"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" validate:"required,oneof=postgres memory"`
	URL          string `mapstructure:"url" validate:"required_if=Driver postgres,omitempty,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

// AuthConfig contains the settings used to verify tokens minted by the
// external identity service.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	Issuer    string `mapstructure:"issuer"`
}

// GameConfig contains the rules of the daily puzzle.
type GameConfig struct {
	WordLength        int    `mapstructure:"word_length" validate:"required,gte=3,lte=10"`
	MaxAttempts       int    `mapstructure:"max_attempts" validate:"required,gte=1,lte=12"`
	LookbackDays      int    `mapstructure:"lookback_days" validate:"gte=0"`
	Timezone          string `mapstructure:"timezone" validate:"required"`
	LaunchDate        string `mapstructure:"launch_date" validate:"required,datetime=2006-01-02"`
	SelectionSeed     string `mapstructure:"selection_seed" validate:"required"`
	EnforceDictionary bool   `mapstructure:"enforce_dictionary"`
}

// Location returns the canonical timezone puzzles are dated in.
func (g GameConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid game timezone %q: %w", g.Timezone, err)
	}
	return loc, nil
}

// Launch returns the first playable puzzle date.
func (g GameConfig) Launch() (domain.Date, error) {
	return domain.ParseDate(g.LaunchDate)
}

// LeaderboardConfig contains leaderboard batch and paging settings.
type LeaderboardConfig struct {
	RecomputeInterval time.Duration `mapstructure:"recompute_interval" validate:"gt=0"`
	ReconcileInterval time.Duration `mapstructure:"reconcile_interval" validate:"gt=0"`
	ReconcileBatch    int           `mapstructure:"reconcile_batch" validate:"gte=1"`
	DefaultPageSize   int           `mapstructure:"default_page_size" validate:"gte=1"`
	MaxPageSize       int           `mapstructure:"max_page_size" validate:"gtefield=DefaultPageSize"`
	CoinsPerWin       int           `mapstructure:"coins_per_win" validate:"gte=0"`
}

// ShareConfig contains the fixed text of shared results.
type ShareConfig struct {
	ProductName string `mapstructure:"product_name" validate:"required"`
	Tagline     string `mapstructure:"tagline" validate:"required"`
	Prompt      string `mapstructure:"prompt"`
	Link        string `mapstructure:"link" validate:"required"`
}
