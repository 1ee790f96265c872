package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/compliance-view/internal/logging"
)

type Config struct {
	Server struct {
		Port int `yaml:"port" validate:"min=1,max=65535"`
		// RenderWait bounds how long a page waits for the query; 0 waits for
		// the transport to resolve or the client to go away.
		RenderWait time.Duration `yaml:"renderWait" validate:"min=0"`
	} `yaml:"server"`

	Compliance struct {
		BaseURL string `yaml:"baseURL" validate:"required,url"`
		APIRoot string `yaml:"apiRoot" validate:"required,startswith=/"`
		// Timeout of the HTTP transport; 0 means none.
		Timeout time.Duration `yaml:"timeout" validate:"min=0"`
	} `yaml:"compliance"`

	Cache struct {
		Driver string `yaml:"driver" validate:"oneof=memory redis"`
		Redis  struct {
			Addr      string `yaml:"addr"`
			Password  string `yaml:"password"`
			DB        int    `yaml:"db" validate:"min=0"`
			KeyPrefix string `yaml:"keyPrefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	RateLimit struct {
		RPS   float64 `yaml:"rps" validate:"min=0"`
		Burst int     `yaml:"burst" validate:"min=0"`
	} `yaml:"rateLimit"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"cors"`

	Log logging.Config `yaml:"log"`
}

// Default is the configuration used when no file is present.
func Default() *Config {
	var c Config
	c.Server.Port = 8080
	c.Compliance.BaseURL = "http://localhost:3000"
	c.Compliance.APIRoot = "/r/insights/platform/compliance"
	c.Cache.Driver = "memory"
	c.Cache.Redis.Addr = "localhost:6379"
	c.RateLimit.RPS = 10
	c.RateLimit.Burst = 20
	c.CORS.AllowedOrigins = []string{"*"}
	c.Log.Level = "info"
	c.Log.Format = "json"
	return &c
}

// Load reads .env (if any), then the YAML file at path (if any) over the
// defaults, then environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Compliance.BaseURL, "COMPLIANCE_BASE_URL")
	setString(&c.Compliance.APIRoot, "COMPLIANCE_API_ROOT")
	setString(&c.Cache.Driver, "CACHE_DRIVER")
	setString(&c.Cache.Redis.Addr, "REDIS_ADDR")
	setString(&c.Cache.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	return nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Cache.Driver == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("invalid config: cache.redis.addr is required for the redis driver")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
