package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "taraweeh.json"), []byte(body), 0644))
	return dir
}

func TestLoad_WithCatalogFile(t *testing.T) {
	dir := writeConfig(t, `{
		"dataDir": "/srv/markers",
		"textService": "http://localhost:9090/v1",
		"pollInterval": "500ms",
		"days": [
			{
				"number": 15,
				"parts": [
					{"id": 1, "videoId": "abc123", "label": "Part 1", "dataFile": "day-15-part-1.json"},
					{"id": 2, "videoId": "def456", "label": "Part 2", "dataFile": "day-15-part-2.json"}
				]
			},
			{"number": 3, "parts": [{"id": 1, "videoId": "xyz", "dataFile": "day-3.json"}]}
		]
	}`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/srv/markers", cfg.DataDir)
	assert.Equal(t, "http://localhost:9090/v1", cfg.TextService)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)

	require.Len(t, cfg.Days, 2)
	assert.Equal(t, 3, cfg.Days[0].Number, "catalog sorted by day number")
	assert.Equal(t, 15, cfg.Days[1].Number)

	day, ok := cfg.Day(15)
	require.True(t, ok)
	assert.True(t, day.MultiPart())
	assert.Equal(t, "abc123", day.Parts[0].VideoID)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "", cfg.TextService)
	assert.Equal(t, "/tmp/mpv-taraweeh.sock", cfg.PlayerSocket)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Days)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load("/nonexistent/path")
	require.NoError(t, err)
	assert.Equal(t, "./data", cfg.DataDir)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TARAWEEH_DATADIR", "/env/markers")
	t.Setenv("TARAWEEH_LOGLEVEL", "debug")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "/env/markers", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := writeConfig(t, `{"days": [`)
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_RejectsDuplicateDays(t *testing.T) {
	dir := writeConfig(t, `{"days": [{"number": 5}, {"number": 5}]}`)
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate catalog entry")
}

func TestLoad_RejectsNonPositivePollInterval(t *testing.T) {
	dir := writeConfig(t, `{"pollInterval": "0s"}`)
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pollInterval")
}

func TestDayLookupMiss(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	_, ok := cfg.Day(9)
	assert.False(t, ok)
}
