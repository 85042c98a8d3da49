package cli

import (
	"flag"
	"fmt"

	"job-board/internal/config"
	"job-board/internal/logging"
)

func runConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	common := bindCommonFlags(fs)
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.load()
	if err != nil {
		return err
	}
	logPath, err := logging.ResolvePath(cfg.Logging.File)
	if err != nil {
		return err
	}

	if *jsonOut {
		return printJSON(struct {
			config.Config
			LogPath string `json:"log_path"`
		}{Config: cfg, LogPath: logPath})
	}

	fmt.Printf("endpoint: %s\n", cfg.API.Endpoint)
	fmt.Printf("page_size: %d\n", cfg.API.PageSize)
	fmt.Printf("timeout: %s\n", defaultIfEmpty(cfg.API.Timeout, "(transport default)"))
	fmt.Printf("min_interval: %s\n", defaultIfEmpty(cfg.API.MinInterval, "(none)"))
	fmt.Printf("user_agent: %s\n", cfg.API.UserAgent)
	fmt.Printf("log_level: %s\n", cfg.Logging.Level)
	fmt.Printf("log_file: %s\n", logPath)
	fmt.Printf("filters: %s\n", cfg.Filters.Criteria().Summary())
	return nil
}
