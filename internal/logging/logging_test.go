package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-board/internal/config"
)

func TestResolvePathPrefersConfigured(t *testing.T) {
	got, err := ResolvePath(" /var/log/board.log ")
	require.NoError(t, err)
	assert.Equal(t, "/var/log/board.log", got)
}

func TestResolvePathDefaultsToCacheDir(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", tmp)
	t.Setenv("HOME", tmp)

	got, err := ResolvePath("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(appDirName, logFileName), filepath.Join(filepath.Base(filepath.Dir(got)), filepath.Base(got)))
}

func TestNewCreatesLogDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "board.log")

	logger, got, err := New(config.LoggingConfig{Level: "debug", File: path})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Equal(t, path, got)

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewAcceptsEveryConfiguredLevel(t *testing.T) {
	dir := t.TempDir()
	for _, level := range []string{"trace", "debug", "info", "warn", "error", ""} {
		t.Run(level, func(t *testing.T) {
			logger, _, err := New(config.LoggingConfig{Level: level, File: filepath.Join(dir, "board.log")})
			require.NoError(t, err)
			require.NotNil(t, logger)
			logger.Info().Str("level", level).Msg("logger ready")
		})
	}
}
