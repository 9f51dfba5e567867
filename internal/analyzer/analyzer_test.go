package analyzer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
	"github.com/andalus/go-taraweeh-monitor/internal/core/timeline"
	"github.com/andalus/go-taraweeh-monitor/internal/presentation/formatter"
)

func writeMarkerFile(t *testing.T, dir, name string, day int, markers []map[string]interface{}) {
	t.Helper()
	payload := map[string]interface{}{
		"source":  "taraweeh-indexer",
		"day":     day,
		"markers": markers,
	}
	data, err := sonic.MarshalIndent(payload, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
}

func seedDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeMarkerFile(t, dir, "day-1.json", 1, []map[string]interface{}{
		{"time": 10.0, "surah": "Al-Fatihah", "surah_number": 1, "ayah": 1, "juz": 1, "reciter": "Hasan", "quality": "high"},
		{"time": 120.0, "surah": "Al-Baqarah", "surah_number": 2, "ayah": 1, "juz": 1, "reciter": "Hasan", "quality": "high"},
		{"time": 300.0, "surah": "Al-Baqarah", "surah_number": 2, "ayah": 30, "juz": 1, "reciter": "Samir", "quality": "manual"},
	})

	writeMarkerFile(t, dir, "day-2-part-1.json", 2, []map[string]interface{}{
		{"time": 15.0, "surah": "Al-Baqarah", "surah_number": 2, "ayah": 142, "juz": 2, "reciter": "Hasan", "quality": "high"},
	})
	writeMarkerFile(t, dir, "day-2-part-2.json", 2, []map[string]interface{}{
		{"time": 5.0, "surah": "Aal-Imran", "surah_number": 3, "ayah": 1, "juz": 3, "reciter": "Samir", "quality": "high"},
	})

	return dir
}

func runAnalyzer(t *testing.T, config *Config) string {
	t.Helper()
	a := New(config)
	var buf bytes.Buffer
	a.SetOutput(&buf)
	require.NoError(t, a.Run())
	return buf.String()
}

func TestAnalyzerJSONReport(t *testing.T) {
	dir := seedDataDir(t)

	out := runAnalyzer(t, &Config{DataDir: dir, OutputFormat: "json"})

	var report formatter.Report
	require.NoError(t, sonic.Unmarshal([]byte(out), &report))

	assert.Equal(t, []int{1, 2}, report.Days)
	assert.Equal(t, 5, report.TotalMarkers)

	require.Len(t, report.Progress, 2)
	assert.Equal(t, 1, report.Progress[0].JuzCount)
	assert.Equal(t, 3, report.Progress[1].JuzCount)

	// Al-Fatihah is excluded from surah starts.
	names := make([]string, 0, len(report.SurahStarts))
	for _, s := range report.SurahStarts {
		names = append(names, s.Surah)
	}
	assert.NotContains(t, names, "Al-Fatihah")
	assert.Contains(t, names, "Al-Baqarah")
	assert.Contains(t, names, "Aal-Imran")
}

func TestAnalyzerDayFilter(t *testing.T) {
	dir := seedDataDir(t)

	out := runAnalyzer(t, &Config{DataDir: dir, OutputFormat: "json", Days: []int{2}})

	var report formatter.Report
	require.NoError(t, sonic.Unmarshal([]byte(out), &report))
	assert.Equal(t, []int{2}, report.Days)
	assert.Equal(t, 2, report.TotalMarkers)
}

func TestAnalyzerIgnoresMissingRequestedDay(t *testing.T) {
	dir := seedDataDir(t)

	out := runAnalyzer(t, &Config{DataDir: dir, OutputFormat: "json", Days: []int{1, 9}})

	var report formatter.Report
	require.NoError(t, sonic.Unmarshal([]byte(out), &report))
	assert.Equal(t, []int{1}, report.Days)
}

func TestAnalyzerEmptyDataDir(t *testing.T) {
	a := New(&Config{DataDir: t.TempDir(), OutputFormat: "table"})
	err := a.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no marker files found")
}

func TestAnalyzerWithCacheDir(t *testing.T) {
	dir := seedDataDir(t)
	cacheDir := t.TempDir()

	first := runAnalyzer(t, &Config{DataDir: dir, CacheDir: cacheDir, OutputFormat: "json"})
	second := runAnalyzer(t, &Config{DataDir: dir, CacheDir: cacheDir, OutputFormat: "json"})
	assert.Equal(t, first, second)

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestAnalyzerUnsupportedFormat(t *testing.T) {
	dir := seedDataDir(t)
	a := New(&Config{DataDir: dir, OutputFormat: "xml"})
	var buf bytes.Buffer
	a.SetOutput(&buf)
	err := a.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestLoadStatsTotals(t *testing.T) {
	stats := NewLoadStats()

	stats.RecordDay([]timeline.Marker{
		{Marker: model.Marker{Quality: "high", Reciter: "Hasan"}, Label: model.ParseReciter("Hasan")},
		{Marker: model.Marker{Quality: "inferred"}, Label: model.UnknownReciter},
	})
	stats.RecordDay([]timeline.Marker{
		{Marker: model.Marker{Quality: "manual", Reciter: "Samir"}, Label: model.ParseReciter("Samir")},
	})

	days, markers := stats.GetStats()
	assert.Equal(t, int64(2), days)
	assert.Equal(t, int64(3), markers)
}
