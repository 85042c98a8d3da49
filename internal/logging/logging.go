// Package logging builds the arbor logger. The terminal UI owns stdout, so
// log lines always go to a file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"

	"job-board/internal/config"
)

const (
	appDirName     = "job-board"
	logFileName    = "job-board.log"
	maxLogFileSize = 10 * 1024 * 1024
	maxLogBackups  = 3
)

// New returns a file-backed logger at the configured level and the path it
// writes to.
func New(cfg config.LoggingConfig) (arbor.ILogger, string, error) {
	path, err := ResolvePath(cfg.File)
	if err != nil {
		return nil, "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, "", fmt.Errorf("create log directory for %s: %w", path, err)
	}

	logger := arbor.NewLogger().WithFileWriter(models.WriterConfiguration{
		Type:             models.LogWriterTypeFile,
		FileName:         path,
		TimeFormat:       "15:04:05",
		MaxSize:          maxLogFileSize,
		MaxBackups:       maxLogBackups,
		OutputType:       models.OutputFormatLogfmt,
		DisableTimestamp: false,
	})
	level := strings.TrimSpace(cfg.Level)
	if level == "" {
		level = config.DefaultLogLevel
	}
	logger = logger.WithLevelFromString(level)
	return logger, path, nil
}

// ResolvePath returns configured, or <user cache dir>/job-board/job-board.log.
func ResolvePath(configured string) (string, error) {
	if p := strings.TrimSpace(configured); p != "" {
		return p, nil
	}
	cacheRoot, err := os.UserCacheDir()
	if err != nil || strings.TrimSpace(cacheRoot) == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", fmt.Errorf("resolve log path: %w", homeErr)
		}
		cacheRoot = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheRoot, appDirName, logFileName), nil
}
