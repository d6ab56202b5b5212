package config

import (
	"encoding/json"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port     string `env:"PORT" env-default:"8085"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	Jaeger   string `env:"JAEGER_ENDPOINT"`

	// SearchHost is the base URL of the downstream flight search service;
	// the client posts to <host>/v1/search/flights.
	SearchHost       string        `env:"SEARCH_HOST" env-default:"http://localhost:8080"`
	SearchTimeout    time.Duration `env:"SEARCH_TIMEOUT" env-default:"15s"`
	SearchMaxRetries int           `env:"SEARCH_MAX_RETRIES" env-default:"3"`
	SearchBaseDelay  time.Duration `env:"SEARCH_BASE_DELAY" env-default:"1s"`

	// RequestTimeout bounds one whole multi-region fan-out.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" env-default:"30s"`

	// IPGeoProvider is a URL template with an {ip} placeholder; empty
	// disables geolocation and keeps the default region fallback.
	IPGeoProvider string        `env:"IP_GEO_PROVIDER"`
	IPGeoTimeout  time.Duration `env:"IP_GEO_TIMEOUT" env-default:"3s"`

	// DisplayCurrency enables price normalization of merged results.
	// ExchangeRates is a JSON object of common-base rates, e.g.
	// {"INR":1.0,"USD":0.012}.
	DisplayCurrency string `env:"USER_DISPLAY_CURRENCY"`
	ExchangeRates   string `env:"EXCHANGE_RATES" env-default:"{}"`

	MemoryEnabled bool          `env:"MEMORY_ENABLED" env-default:"false"`
	RedisAddr     string        `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" env-default:"0"`
	MemoryTTL     time.Duration `env:"MEMORY_TTL" env-default:"24h"`

	RegionRPS   float64 `env:"REGION_RATE_LIMIT" env-default:"10"`
	RegionBurst int     `env:"REGION_RATE_BURST" env-default:"20"`
}

func MustLoad() *Config {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("cannot read config from environment: " + err.Error())
	}
	return &cfg
}

// Rates parses the EXCHANGE_RATES table. A missing or malformed value
// yields nil, which disables normalization downstream.
func (c *Config) Rates() map[string]float64 {
	var rates map[string]float64
	if err := json.Unmarshal([]byte(c.ExchangeRates), &rates); err != nil {
		return nil
	}
	if len(rates) == 0 {
		return nil
	}
	return rates
}

// SearchEndpoint is the full downstream search URL.
func (c *Config) SearchEndpoint() string {
	return c.SearchHost + "/v1/search/flights"
}
