package cli

import (
	"flag"
	"strings"

	"github.com/ternarybob/arbor"

	"job-board/internal/config"
	"job-board/internal/jdapi"
	"job-board/internal/logging"
)

// commonFlags are shared by every command that talks to the listing API.
type commonFlags struct {
	configPath *string
	envPath    *string
	endpoint   *string
	pageSize   *int
	logLevel   *string
}

func bindCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		configPath: fs.String("config", "", "config file path (default "+config.DefaultConfigPath+" when present)"),
		envPath:    fs.String("env-file", config.DefaultEnvPath, "dotenv file loaded before the config"),
		endpoint:   fs.String("endpoint", "", "listing endpoint URL override"),
		pageSize:   fs.Int("page-size", 0, "jobs per page override (1-100)"),
		logLevel:   fs.String("log-level", "", "log level override (trace|debug|info|warn|error)"),
	}
}

// load resolves the effective config: file and env first, then flags.
func (c *commonFlags) load() (config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		Path:    strings.TrimSpace(*c.configPath),
		EnvPath: strings.TrimSpace(*c.envPath),
	})
	if err != nil {
		return config.Config{}, err
	}
	if v := strings.TrimSpace(*c.endpoint); v != "" {
		cfg.API.Endpoint = v
	}
	if *c.pageSize != 0 {
		cfg.API.PageSize = *c.pageSize
	}
	if v := strings.TrimSpace(*c.logLevel); v != "" {
		cfg.Logging.Level = v
	}
	cfg = config.Normalize(cfg)
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

type appRuntime struct {
	cfg     config.Config
	logger  arbor.ILogger
	logPath string
	client  *jdapi.Client
}

func (c *commonFlags) setup() (appRuntime, error) {
	cfg, err := c.load()
	if err != nil {
		return appRuntime{}, err
	}
	logger, logPath, err := logging.New(cfg.Logging)
	if err != nil {
		return appRuntime{}, err
	}
	client, err := newClient(cfg, logger)
	if err != nil {
		return appRuntime{}, err
	}
	return appRuntime{cfg: cfg, logger: logger, logPath: logPath, client: client}, nil
}

func newClient(cfg config.Config, logger arbor.ILogger) (*jdapi.Client, error) {
	timeout, err := cfg.API.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	interval, err := cfg.API.MinIntervalDuration()
	if err != nil {
		return nil, err
	}
	opts := []jdapi.ClientOption{
		jdapi.WithUserAgent(cfg.API.UserAgent),
		jdapi.WithMinInterval(interval),
		jdapi.WithLogger(logger),
	}
	if timeout > 0 {
		opts = append(opts, jdapi.WithTimeout(timeout))
	}
	return jdapi.NewClient(cfg.API.Endpoint, opts...), nil
}
