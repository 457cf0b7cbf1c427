package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every server environment variable, e.g. TCSIM_PORT.
const EnvPrefix = "TCSIM"

// ServerConfig holds API server settings read from the environment.
type ServerConfig struct {
	Port      int    `envconfig:"PORT" default:"8080"`
	Env       string `envconfig:"ENV" default:"development"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	RateLimitRPS   float64  `envconfig:"RATE_LIMIT_RPS" default:"10"`
	RateLimitBurst int      `envconfig:"RATE_LIMIT_BURST" default:"20"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`

	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"30m"`
	CacheSize int           `envconfig:"CACHE_SIZE" default:"64"`

	// MaxCells caps num_paths × n_days per request.
	MaxCells int `envconfig:"MAX_CELLS" default:"10000000"`
	Workers  int `envconfig:"WORKERS" default:"0"`
}

func LoadServer() (*ServerConfig, error) {
	var c ServerConfig
	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return nil, fmt.Errorf("load server config: invalid port %d", c.Port)
	}
	return &c, nil
}

func (c *ServerConfig) Production() bool {
	return c.Env == "production"
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
