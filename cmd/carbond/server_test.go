package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/carbon/internal/events"
)

func TestResolveConfig_CreatesDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("CARBON_CONFIG", "")
	t.Chdir(t.TempDir())

	cfg, err := resolveConfig("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Queue.MaxConcurrent)
	assert.FileExists(t, filepath.Join(dir, "carbon", "config.toml"))
}

func TestResolveConfig_MissingExplicitEnv(t *testing.T) {
	t.Setenv("CARBON_CONFIG", filepath.Join(t.TempDir(), "nope.toml"))

	_, err := resolveConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CARBON_CONFIG")
}

func TestResolveConfig_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[queue]\nmax_concurrent = 5\n"), 0o644))

	cfg, err := resolveConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Queue.MaxConcurrent)
}

func TestOpenDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "carbon.db")

	db, err := openDatabase(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	log := events.NewEventLog(db)
	_, err = log.Append(&events.JobQueued{BaseEvent: events.NewBaseEvent(events.EventJobQueued, events.EntityJob, "abc")})
	require.NoError(t, err)

	recent, total, err := log.Recent(10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, recent, 1)
	assert.Equal(t, "abc", recent[0].EntityID)
}
