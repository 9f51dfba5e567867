package aggregator

import (
	"sort"

	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
	"github.com/andalus/go-taraweeh-monitor/internal/core/timeline"
)

// ProgressPoint is one day's cumulative coverage sample.
type ProgressPoint struct {
	Day        int `json:"day"`
	JuzCount   int `json:"juzCount"`
	SurahCount int `json:"surahCount"`
}

// Progress emits one data point per day with the cumulative count of distinct
// juz and surahs seen so far, walking days oldest to newest.
//
// Only markers whose quality is not inferred count, unless a day carries no
// non-inferred markers at all, in which case all of that day's markers
// count. Both
// series are non-decreasing by construction.
func Progress(days []DayTimeline) []ProgressPoint {
	ordered := make([]DayTimeline, len(days))
	copy(ordered, days)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Day < ordered[j].Day
	})

	seenJuz := make(map[int]bool)
	seenSurah := make(map[string]bool)

	points := make([]ProgressPoint, 0, len(ordered))
	for _, dt := range ordered {
		counted := trustedMarkers(dt.Markers)
		for _, m := range counted {
			if m.HasJuz() {
				seenJuz[m.Juz] = true
			}
			if m.Surah != "" || m.SurahNumber >= 1 {
				seenSurah[surahKey(m)] = true
			}
		}
		points = append(points, ProgressPoint{
			Day:        dt.Day,
			JuzCount:   len(seenJuz),
			SurahCount: len(seenSurah),
		})
	}
	return points
}

// trustedMarkers filters out inferred markers, degrading to the full set when
// a day has nothing better to offer.
func trustedMarkers(markers []timeline.Marker) []timeline.Marker {
	trusted := make([]timeline.Marker, 0, len(markers))
	for _, m := range markers {
		if m.QualityTier() != model.QualityInferred {
			trusted = append(trusted, m)
		}
	}
	if len(trusted) == 0 {
		return markers
	}
	return trusted
}
