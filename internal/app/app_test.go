package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/carbon/internal/config"
	"github.com/vmunix/carbon/internal/workspace"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Directory = filepath.Join(t.TempDir(), "out")
	cfg.Tools.YtDlp = "sh"
	cfg.Tools.FFmpeg = "sh"
	cfg.Tools.FFprobe = "sh"
	return cfg
}

func TestBuild(t *testing.T) {
	cfg := testConfig(t)
	cfg.Queue.MaxConcurrent = 2

	p, err := Build(cfg, nil, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.Equal(t, 2, p.Scheduler.MaxConcurrent())
	assert.DirExists(t, cfg.Output.Directory)
}

func TestBuild_SweepsStaleJobDirs(t *testing.T) {
	cfg := testConfig(t)
	stale := filepath.Join(cfg.Output.Directory, workspace.TempDirName, "old-job")
	require.NoError(t, os.MkdirAll(stale, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(stale, "partial.mp4.part"), []byte("x"), 0644))

	_, err := Build(cfg, nil, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.NoDirExists(t, stale)
}

func TestBuild_WithoutConversion(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.AutoConvert = false
	cfg.Tools.FFmpeg = ""

	_, err := Build(cfg, nil, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
}

func TestCheckTools(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, CheckTools(cfg))

	cfg.Tools.FFmpeg = "definitely-not-a-real-ffmpeg"
	err := CheckTools(cfg)
	require.ErrorIs(t, err, ErrToolMissing)
	assert.Contains(t, err.Error(), "definitely-not-a-real-ffmpeg")

	cfg.Output.AutoConvert = false
	assert.NoError(t, CheckTools(cfg), "ffmpeg is only needed for conversion")
}
