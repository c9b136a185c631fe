package config

import "time"

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Type     string     `mapstructure:"type" validate:"oneof=postgres sqlite"`
	URL      string     `mapstructure:"url"`
	Host     string     `mapstructure:"host"`
	Port     int        `mapstructure:"port"`
	User     string     `mapstructure:"user"`
	Password string     `mapstructure:"password"`
	Name     string     `mapstructure:"name"`
	SSLMode  string     `mapstructure:"sslmode"`
	Path     string     `mapstructure:"path"` // sqlite file path or :memory:
	Pool     PoolConfig `mapstructure:"pool"`
}

// PoolConfig holds connection pool settings.
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open"`
	MaxIdle     int           `mapstructure:"max_idle"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SimulationConfig holds the tick-loop settings.
type SimulationConfig struct {
	// CompressionRatio is sim seconds per wall-clock second.
	CompressionRatio float64 `mapstructure:"compression_ratio" validate:"gt=0"`
	// TickInterval is the wall-clock period of the main tick loop.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// PositionInterval is the wall-clock period of the position loop.
	PositionInterval time.Duration `mapstructure:"position_interval"`
	// CoverageEvery runs the coverage cycle every Nth position tick.
	CoverageEvery int `mapstructure:"coverage_every" validate:"min=1"`
	// LeadTimeFactor front-loads mission routes ahead of the first window.
	LeadTimeFactor float64 `mapstructure:"lead_time_factor" validate:"gte=0,lte=1"`
}

// LLMConfig holds the language-model client settings.
type LLMConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	BaseURL       string        `mapstructure:"base_url"`
	FlagshipModel string        `mapstructure:"flagship_model"`
	MidRangeModel string        `mapstructure:"mid_range_model"`
	FastModel     string        `mapstructure:"fast_model"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
	RateLimit     RateConfig    `mapstructure:"rate_limit"`
}

// RateConfig holds token-bucket settings.
type RateConfig struct {
	Requests float64 `mapstructure:"requests"` // per second
	Burst    int     `mapstructure:"burst"`
}

// CatalogConfig holds the external element-set catalog settings.
type CatalogConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Username  string        `mapstructure:"username"`
	Password  string        `mapstructure:"password"`
	Timeout   time.Duration `mapstructure:"timeout"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	RateLimit RateConfig    `mapstructure:"rate_limit"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}
