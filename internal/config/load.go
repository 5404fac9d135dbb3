package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. CODELE_SERVER_PORT.
const EnvPrefix = "CODELE"

// ConfigFileEnv names the environment variable holding an explicit config file path.
const ConfigFileEnv = "CODELE_CONFIG_FILE"

// setDefaults registers every key so environment variables can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.guess_rate_limit", 2.0)
	v.SetDefault("server.guess_burst", 5)
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")

	v.SetDefault("game.word_length", 5)
	v.SetDefault("game.max_attempts", 6)
	v.SetDefault("game.lookback_days", 365)
	v.SetDefault("game.timezone", "UTC")
	v.SetDefault("game.launch_date", "2024-01-01")
	v.SetDefault("game.selection_seed", "codele")
	v.SetDefault("game.enforce_dictionary", true)

	v.SetDefault("leaderboard.recompute_interval", "15m")
	v.SetDefault("leaderboard.reconcile_interval", "5m")
	v.SetDefault("leaderboard.reconcile_batch", 500)
	v.SetDefault("leaderboard.default_page_size", 20)
	v.SetDefault("leaderboard.max_page_size", 100)
	v.SetDefault("leaderboard.coins_per_win", 10)

	v.SetDefault("share.product_name", "Skloop Daily Codele")
	v.SetDefault("share.tagline", "Daily programming term challenge")
	v.SetDefault("share.prompt", "Test your coding vocabulary!")
	v.SetDefault("share.link", "skloop.vercel.app")
}

// Load configuration from defaults, an optional YAML file and environment variables.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags and the derived game settings.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if _, err := cfg.Game.Location(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if _, err := cfg.Game.Launch(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
