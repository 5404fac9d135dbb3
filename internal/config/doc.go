// Package config loads server, storage, auth and game settings with viper
// from defaults, an optional YAML file and CODELE_* environment variables,
// then validates them before any component starts.
package config
