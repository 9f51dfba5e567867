package fixtures

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
)

// markerFile mirrors the payload written by the indexing pipeline.
type markerFile struct {
	Source  string         `json:"source"`
	Day     int            `json:"day"`
	Markers []model.Marker `json:"markers"`
}

// MarkerFileGenerator writes marker JSON fixtures in the pipeline's file
// naming convention.
type MarkerFileGenerator struct {
	baseDir string
}

// NewMarkerFileGenerator creates a generator rooted at baseDir.
func NewMarkerFileGenerator(baseDir string) *MarkerFileGenerator {
	return &MarkerFileGenerator{baseDir: baseDir}
}

// WriteDay writes a single-part night as day-N.json.
func (g *MarkerFileGenerator) WriteDay(day int, markers []model.Marker) error {
	return g.write(fmt.Sprintf("day-%d.json", day), day, markers)
}

// WritePart writes one part of a multi-part night as day-N-part-M.json.
func (g *MarkerFileGenerator) WritePart(day, part int, markers []model.Marker) error {
	return g.write(fmt.Sprintf("day-%d-part-%d.json", day, part), day, markers)
}

func (g *MarkerFileGenerator) write(name string, day int, markers []model.Marker) error {
	if err := os.MkdirAll(g.baseDir, 0755); err != nil {
		return err
	}
	data, err := sonic.MarshalIndent(markerFile{
		Source:  "taraweeh-indexer",
		Day:     day,
		Markers: markers,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(g.baseDir, name), data, 0644)
}

// GenerateNight writes a synthetic night: one marker per ayah at a fixed
// cadence, single surah, alternating reciters. Useful for tests that need
// volume rather than hand-picked values.
func (g *MarkerFileGenerator) GenerateNight(day, surahNumber, ayahCount int) error {
	reciters := []string{"Hasan", "Samir"}
	markers := make([]model.Marker, 0, ayahCount)
	for i := 0; i < ayahCount; i++ {
		markers = append(markers, model.Marker{
			Time:        float64(i) * 45,
			Surah:       fmt.Sprintf("Surah %d", surahNumber),
			SurahNumber: surahNumber,
			Ayah:        i + 1,
			Juz:         (surahNumber-1)/4 + 1,
			Reciter:     reciters[i%len(reciters)],
			Quality:     "high",
		})
	}
	return g.WriteDay(day, markers)
}
