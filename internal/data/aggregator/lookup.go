package aggregator

import (
	"sort"

	"github.com/andalus/go-taraweeh-monitor/internal/core/timeline"
)

// LookupResult reports where an ayah range was found within a day's parts.
type LookupResult struct {
	Found      bool
	PartID     int
	SeekTime   float64
	GlobalTime float64
	Marker     timeline.Marker
}

// AyahRangeLookup finds the earliest marker whose surah number matches and
// whose ayah falls in the inclusive [fromAyah, toAyah] range.
//
// The active part is searched first; when it has no match, the day's other
// parts are searched in ascending part-id order so the caller can redirect
// playback there. Opening-chapter markers are not excluded here: this lookup
// serves raw playback resolution.
func AyahRangeLookup(markers []timeline.Marker, activePartID, surahNumber, fromAyah, toAyah int) LookupResult {
	if toAyah < fromAyah {
		fromAyah, toAyah = toAyah, fromAyah
	}

	matches := func(m timeline.Marker) bool {
		return m.SurahNumber == surahNumber && m.Ayah >= fromAyah && m.Ayah <= toAyah
	}

	earliestIn := func(partID int) (timeline.Marker, bool) {
		var best timeline.Marker
		found := false
		for _, m := range markers {
			if m.PartID != partID || !matches(m) {
				continue
			}
			if !found || m.SeekTime < best.SeekTime {
				best = m
				found = true
			}
		}
		return best, found
	}

	if m, ok := earliestIn(activePartID); ok {
		return LookupResult{Found: true, PartID: m.PartID, SeekTime: m.SeekTime, GlobalTime: m.GlobalTime, Marker: m}
	}

	otherParts := make(map[int]bool)
	for _, m := range markers {
		if m.PartID != activePartID {
			otherParts[m.PartID] = true
		}
	}
	partIDs := make([]int, 0, len(otherParts))
	for id := range otherParts {
		partIDs = append(partIDs, id)
	}
	sort.Ints(partIDs)

	for _, id := range partIDs {
		if m, ok := earliestIn(id); ok {
			return LookupResult{Found: true, PartID: m.PartID, SeekTime: m.SeekTime, GlobalTime: m.GlobalTime, Marker: m}
		}
	}
	return LookupResult{}
}
