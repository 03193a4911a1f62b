package config

import (
	"log/slog"
	"time"
)

type LogLeveler string

func (l LogLeveler) Level() slog.Level {
	var level slog.Level

	_ = level.UnmarshalText([]byte(l))

	return level
}

// Config holds the server configuration.
type Config struct {
	LogLevel  LogLeveler `mapstructure:"LOG_LEVEL"`
	HTTP      HTTP       `mapstructure:",squash"`
	Supabase  Supabase   `mapstructure:",squash"`
	Providers Provider   `mapstructure:",squash"`
	Redis     Redis      `mapstructure:",squash"`
}

type HTTP struct {
	Port    int           `mapstructure:"HTTP_PORT"`
	Timeout time.Duration `mapstructure:"HTTP_TIMEOUT"`
}

// Supabase is the managed backend that owns auth, the trip tables and the
// serverless pricing function. The service only ever talks to it over HTTPS.
type Supabase struct {
	URL     string        `mapstructure:"SUPABASE_URL"`
	AnonKey string        `mapstructure:"SUPABASE_ANON_KEY"`
	Timeout time.Duration `mapstructure:"SUPABASE_TIMEOUT"`
}

type Redis struct {
	Addr     string        `mapstructure:"REDIS_ADDR"`
	Password string        `mapstructure:"REDIS_PASSWORD"`
	DB       int           `mapstructure:"REDIS_DB"`
	Timeout  time.Duration `mapstructure:"REDIS_TIMEOUT"`
}

// PlanAPIProvider is the primary pricing path: the shared website API.
type PlanAPIProvider struct {
	BaseURL      string        `mapstructure:"PLAN_API_PROVIDER_BASE_URL"`
	Timeout      time.Duration `mapstructure:"PLAN_API_PROVIDER_TIMEOUT"`
	RateLimitRPS int           `mapstructure:"PLAN_API_PROVIDER_RATE_LIMIT"`
}

// DynamicPricingProvider is the fallback pricing path: the serverless
// get-dynamic-pricing function on the managed backend.
type DynamicPricingProvider struct {
	FunctionName string        `mapstructure:"DYNAMIC_PRICING_PROVIDER_FUNCTION_NAME"`
	Timeout      time.Duration `mapstructure:"DYNAMIC_PRICING_PROVIDER_TIMEOUT"`
	RateLimitRPS int           `mapstructure:"DYNAMIC_PRICING_PROVIDER_RATE_LIMIT"`
}

type Provider struct {
	PlanAPI            PlanAPIProvider        `mapstructure:",squash"`
	DynamicPricing     DynamicPricingProvider `mapstructure:",squash"`
	EstimateExpiration time.Duration          `mapstructure:"ESTIMATE_CACHE_EXPIRATION"`
	TripListExpiration time.Duration          `mapstructure:"TRIP_LIST_CACHE_EXPIRATION"`
}
