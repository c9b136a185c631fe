package config

import "time"

// SetDefaults sets default values for all configuration fields.
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "wargame"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "wargame"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Server defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3001
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}

	// Simulation defaults: 720x compression runs a 30-day scenario in
	// one hour of wall clock.
	if cfg.Simulation.CompressionRatio == 0 {
		cfg.Simulation.CompressionRatio = 720
	}
	if cfg.Simulation.TickInterval == 0 {
		cfg.Simulation.TickInterval = 1 * time.Second
	}
	if cfg.Simulation.PositionInterval == 0 {
		cfg.Simulation.PositionInterval = 2 * time.Second
	}
	if cfg.Simulation.CoverageEvery == 0 {
		cfg.Simulation.CoverageEvery = 5
	}
	if cfg.Simulation.LeadTimeFactor == 0 {
		cfg.Simulation.LeadTimeFactor = 0.3
	}

	// LLM defaults
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.LLM.FlagshipModel == "" {
		cfg.LLM.FlagshipModel = "gpt-5"
	}
	if cfg.LLM.MidRangeModel == "" {
		cfg.LLM.MidRangeModel = "gpt-5-mini"
	}
	if cfg.LLM.FastModel == "" {
		cfg.LLM.FastModel = "gpt-5-nano"
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 300 * time.Second
	}
	if cfg.LLM.MaxRetries == 0 {
		cfg.LLM.MaxRetries = 2
	}
	if cfg.LLM.RateLimit.Requests == 0 {
		cfg.LLM.RateLimit.Requests = 2
	}
	if cfg.LLM.RateLimit.Burst == 0 {
		cfg.LLM.RateLimit.Burst = 4
	}

	// Catalog defaults
	if cfg.Catalog.BaseURL == "" {
		cfg.Catalog.BaseURL = "https://unifieddatalibrary.com/udl"
	}
	if cfg.Catalog.Timeout == 0 {
		cfg.Catalog.Timeout = 30 * time.Second
	}
	if cfg.Catalog.CacheTTL == 0 {
		cfg.Catalog.CacheTTL = 1 * time.Hour
	}
	if cfg.Catalog.RateLimit.Requests == 0 {
		cfg.Catalog.RateLimit.Requests = 5
	}
	if cfg.Catalog.RateLimit.Burst == 0 {
		cfg.Catalog.RateLimit.Burst = 10
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}
