// Package config loads job-board settings.
//
// Priority, lowest to highest: defaults, .env file, TOML config file,
// JOBBOARD_* environment variables, command-line flags (applied by callers).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"job-board/internal/filter"
	"job-board/internal/jdapi"
)

const (
	DefaultConfigPath = "job-board.toml"
	DefaultEnvPath    = ".env"
	DefaultPageSize   = 10
	MaxPageSize       = 100
	DefaultLogLevel   = "info"

	envPrefix = "JOBBOARD_"
)

type Config struct {
	API     APIConfig     `toml:"api" json:"api"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
	Filters FilterConfig  `toml:"filters" json:"filters"`
}

type APIConfig struct {
	Endpoint    string `toml:"endpoint" json:"endpoint" validate:"required,url"`
	PageSize    int    `toml:"page_size" json:"page_size" validate:"gte=1,lte=100"`
	Timeout     string `toml:"timeout" json:"timeout,omitempty"`           // "" keeps the transport default
	MinInterval string `toml:"min_interval" json:"min_interval,omitempty"` // "" or "0s" disables spacing
	UserAgent   string `toml:"user_agent" json:"user_agent,omitempty"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level" validate:"oneof=trace debug info warn error"`
	File  string `toml:"file" json:"file,omitempty"` // "" resolves to the user cache dir
}

// FilterConfig seeds the filter form when the browser starts.
type FilterConfig struct {
	MinExperience string `toml:"min_experience" json:"min_experience,omitempty"`
	CompanyName   string `toml:"company_name" json:"company_name,omitempty"`
	Location      string `toml:"location" json:"location,omitempty"`
	RemoteOnly    bool   `toml:"remote_only" json:"remote_only,omitempty"`
	TechStack     string `toml:"tech_stack" json:"tech_stack,omitempty"`
	Role          string `toml:"role" json:"role,omitempty"`
	MinBasePay    string `toml:"min_base_pay" json:"min_base_pay,omitempty"`
}

func (f FilterConfig) Criteria() filter.Criteria {
	return filter.Criteria{
		MinExperience: f.MinExperience,
		CompanyName:   f.CompanyName,
		Location:      f.Location,
		RemoteOnly:    f.RemoteOnly,
		TechStack:     f.TechStack,
		Role:          f.Role,
		MinBasePay:    f.MinBasePay,
	}
}

func Default() Config {
	return Config{
		API: APIConfig{
			Endpoint:  jdapi.DefaultEndpoint,
			PageSize:  DefaultPageSize,
			UserAgent: jdapi.DefaultUserAgent,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}

type LoadOptions struct {
	// Path of the TOML file. The default path may be missing; an explicit
	// path must exist.
	Path    string
	EnvPath string
}

func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	envPath := strings.TrimSpace(opts.EnvPath)
	if envPath == "" {
		envPath = DefaultEnvPath
	}
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file %s: %w", envPath, err)
	}

	path := strings.TrimSpace(opts.Path)
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	cfg = Normalize(cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envPrefix + "ENDPOINT"); v != "" {
		cfg.API.Endpoint = v
	}
	if v := os.Getenv(envPrefix + "PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.API.PageSize = n
		}
	}
	if v := os.Getenv(envPrefix + "TIMEOUT"); v != "" {
		cfg.API.Timeout = v
	}
	if v := os.Getenv(envPrefix + "MIN_INTERVAL"); v != "" {
		cfg.API.MinInterval = v
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(envPrefix + "LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}

// Normalize trims values and fills empty ones with defaults.
func Normalize(raw Config) Config {
	norm := raw
	norm.API.Endpoint = strings.TrimSpace(norm.API.Endpoint)
	if norm.API.Endpoint == "" {
		norm.API.Endpoint = jdapi.DefaultEndpoint
	}
	if norm.API.PageSize == 0 {
		norm.API.PageSize = DefaultPageSize
	}
	norm.API.Timeout = strings.TrimSpace(norm.API.Timeout)
	norm.API.MinInterval = strings.TrimSpace(norm.API.MinInterval)
	norm.API.UserAgent = strings.TrimSpace(norm.API.UserAgent)
	if norm.API.UserAgent == "" {
		norm.API.UserAgent = jdapi.DefaultUserAgent
	}
	norm.Logging.Level = strings.ToLower(strings.TrimSpace(norm.Logging.Level))
	if norm.Logging.Level == "" {
		norm.Logging.Level = DefaultLogLevel
	}
	norm.Logging.File = strings.TrimSpace(norm.Logging.File)
	return norm
}

func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := cfg.API.TimeoutDuration(); err != nil {
		return err
	}
	if _, err := cfg.API.MinIntervalDuration(); err != nil {
		return err
	}
	return nil
}

func (a APIConfig) TimeoutDuration() (time.Duration, error) {
	return parseOptionalDuration("api.timeout", a.Timeout)
}

func (a APIConfig) MinIntervalDuration() (time.Duration, error) {
	return parseOptionalDuration("api.min_interval", a.MinInterval)
}

func parseOptionalDuration(key, raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid config: %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid config: %s must be >= 0", key)
	}
	return d, nil
}
