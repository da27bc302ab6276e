package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultWhenMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := loadConfig(defaultConfigPath)
	require.NoError(t, err)
	require.Equal(t, ".", cfg.Path)
	require.Equal(t, ".build", cfg.BuildDir)
}

func TestLoadConfig_ExplicitPathMustExist(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "site.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("path: "+dir+"\nurl: https://example.com\nprettifyUrls: true\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.True(t, cfg.PrettifyURLs)
	require.Equal(t, filepath.Join(dir, ".build"), cfg.BuildDir)
}

func TestNewLogger_Levels(t *testing.T) {
	ctx := context.Background()
	require.True(t, newLogger("debug").Enabled(ctx, slog.LevelDebug))
	require.False(t, newLogger("info").Enabled(ctx, slog.LevelDebug))
	require.False(t, newLogger("WARN").Enabled(ctx, slog.LevelInfo))
	require.True(t, newLogger("bogus").Enabled(ctx, slog.LevelInfo))
}
