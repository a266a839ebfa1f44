// Package config loads and validates application configuration from
// environment variables and an optional config file.
package config

// Config holds all application configuration, grouped by concern.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Study    StudyConfig    `mapstructure:"study" validate:"required"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig selects and configures the storage backend. The default
// is a local sqlite file; postgres is supported for setups that already
// run one.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite postgres"`
	DSN    string `mapstructure:"dsn" validate:"required"`
	// AutoMigrate applies pending migrations on startup.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// StudyConfig tunes the scheduling core.
type StudyConfig struct {
	// TargetRetention is the recall probability the scheduler aims for
	// when converting stability into review intervals.
	TargetRetention float64 `mapstructure:"target_retention" validate:"required,gt=0,lt=1"`
	// MaximumIntervalDays caps any single review interval.
	MaximumIntervalDays int `mapstructure:"maximum_interval_days" validate:"required,gt=0"`
	// Defaults applied when a session request leaves limits unset.
	DefaultNewWordsLimit int `mapstructure:"default_new_words_limit" validate:"gte=0"`
	DefaultReviewLimit   int `mapstructure:"default_review_limit" validate:"gte=0"`
}
