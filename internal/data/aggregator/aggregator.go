package aggregator

import (
	"fmt"
	"sort"

	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
	"github.com/andalus/go-taraweeh-monitor/internal/core/timeline"
)

// DayTimeline couples a day number with its built timeline.
type DayTimeline struct {
	Day     int
	Markers []timeline.Marker
}

// AyahRef is one deduplicated ayah occurrence inside a reciter subgroup.
type AyahRef struct {
	Ayah       int
	GlobalTime float64
	SeekTime   float64
	PartID     int
	Quality    model.Quality
}

// ReciterGroup holds the ayahs attributed to one reciter within a surah.
type ReciterGroup struct {
	Reciter model.ReciterLabel
	Ayahs   []AyahRef
}

// SurahGroup is the per-surah navigation view of a single day.
type SurahGroup struct {
	Surah       string
	SurahNumber int
	FirstTime   float64
	Reciters    []ReciterGroup
}

// Dedup removes duplicate markers from a day's grouping view. The key is
// (surah, reciter-or-Unknown, ayah); the earliest time wins on collision.
// Running Dedup on its own output yields the same set.
func Dedup(markers []timeline.Marker) []timeline.Marker {
	type key struct {
		surah   string
		reciter string
		ayah    int
	}

	best := make(map[key]int, len(markers))
	order := make([]key, 0, len(markers))
	for i, m := range markers {
		k := key{
			surah:   model.NormalizeSurahName(m.Surah),
			reciter: m.Label.DisplayName(),
			ayah:    m.Ayah,
		}
		existing, ok := best[k]
		if !ok {
			best[k] = i
			order = append(order, k)
			continue
		}
		if m.GlobalTime < markers[existing].GlobalTime {
			best[k] = i
		}
	}

	result := make([]timeline.Marker, 0, len(order))
	for _, k := range order {
		result = append(result, markers[best[k]])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].GlobalTime < result[j].GlobalTime
	})
	return result
}

// GroupDay builds the grouped navigation view for one day: markers are
// deduplicated, opening-chapter markers dropped, then grouped by surah and by
// reciter within surah. Reciter subgroups follow the fixed preference order;
// ayahs sort ascending within each subgroup.
func GroupDay(markers []timeline.Marker) []SurahGroup {
	navigable := make([]timeline.Marker, 0, len(markers))
	for _, m := range markers {
		if model.IsOpeningChapter(m.Surah) {
			continue
		}
		navigable = append(navigable, m)
	}
	deduped := Dedup(navigable)

	type surahAccum struct {
		group    *SurahGroup
		reciters map[string]*ReciterGroup
	}
	bySurah := make(map[string]*surahAccum)
	var surahOrder []string

	for _, m := range deduped {
		sk := model.NormalizeSurahName(m.Surah)
		accum, ok := bySurah[sk]
		if !ok {
			accum = &surahAccum{
				group: &SurahGroup{
					Surah:       m.Surah,
					SurahNumber: m.SurahNumber,
					FirstTime:   m.GlobalTime,
				},
				reciters: make(map[string]*ReciterGroup),
			}
			bySurah[sk] = accum
			surahOrder = append(surahOrder, sk)
		}
		if m.GlobalTime < accum.group.FirstTime {
			accum.group.FirstTime = m.GlobalTime
		}
		if accum.group.SurahNumber == 0 && m.SurahNumber != 0 {
			accum.group.SurahNumber = m.SurahNumber
		}

		rk := m.Label.DisplayName()
		rg, ok := accum.reciters[rk]
		if !ok {
			rg = &ReciterGroup{Reciter: m.Label}
			accum.reciters[rk] = rg
		}
		rg.Ayahs = append(rg.Ayahs, AyahRef{
			Ayah:       m.Ayah,
			GlobalTime: m.GlobalTime,
			SeekTime:   m.SeekTime,
			PartID:     m.PartID,
			Quality:    m.QualityTier(),
		})
	}

	groups := make([]SurahGroup, 0, len(surahOrder))
	for _, sk := range surahOrder {
		accum := bySurah[sk]
		for _, rg := range accum.reciters {
			sort.Slice(rg.Ayahs, func(i, j int) bool {
				return rg.Ayahs[i].Ayah < rg.Ayahs[j].Ayah
			})
			accum.group.Reciters = append(accum.group.Reciters, *rg)
		}
		sort.SliceStable(accum.group.Reciters, func(i, j int) bool {
			ri, rj := accum.group.Reciters[i].Reciter, accum.group.Reciters[j].Reciter
			if ri.GroupRank() != rj.GroupRank() {
				return ri.GroupRank() < rj.GroupRank()
			}
			return ri.DisplayName() < rj.DisplayName()
		})
		groups = append(groups, *accum.group)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].FirstTime < groups[j].FirstTime
	})
	return groups
}

// SurahStart records where a surah was first trustworthily recited across
// all days.
type SurahStart struct {
	Surah       string
	SurahNumber int
	Day         int
	PartID      int
	GlobalTime  float64
	SeekTime    float64
	Quality     model.Quality
	Reciter     string
}

// SurahStarts resolves, per surah, the first trustworthy occurrence across
// all days. Candidates are bucketed by quality tier (high > manual >
// ambiguous > inferred); within the winning bucket the earliest (day, time)
// wins. Opening-chapter markers are excluded.
func SurahStarts(days []DayTimeline) []SurahStart {
	ordered := make([]DayTimeline, len(days))
	copy(ordered, days)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Day < ordered[j].Day
	})

	better := func(a, b SurahStart) bool {
		if a.Quality.Rank() != b.Quality.Rank() {
			return a.Quality.Rank() > b.Quality.Rank()
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.GlobalTime < b.GlobalTime
	}

	best := make(map[string]SurahStart)
	var order []string
	for _, dt := range ordered {
		for _, m := range dt.Markers {
			if model.IsOpeningChapter(m.Surah) {
				continue
			}
			candidate := SurahStart{
				Surah:       m.Surah,
				SurahNumber: m.SurahNumber,
				Day:         dt.Day,
				PartID:      m.PartID,
				GlobalTime:  m.GlobalTime,
				SeekTime:    m.SeekTime,
				Quality:     m.QualityTier(),
				Reciter:     m.Label.DisplayName(),
			}
			sk := model.NormalizeSurahName(m.Surah)
			existing, ok := best[sk]
			if !ok {
				best[sk] = candidate
				order = append(order, sk)
				continue
			}
			if better(candidate, existing) {
				best[sk] = candidate
			}
		}
	}

	starts := make([]SurahStart, 0, len(order))
	for _, sk := range order {
		starts = append(starts, best[sk])
	}
	sort.SliceStable(starts, func(i, j int) bool {
		if starts[i].Day != starts[j].Day {
			return starts[i].Day < starts[j].Day
		}
		return starts[i].GlobalTime < starts[j].GlobalTime
	})
	return starts
}

// surahKey identifies a surah for progress counting: the surah number when
// present, else the normalized display name.
func surahKey(m timeline.Marker) string {
	if m.SurahNumber >= 1 {
		return fmt.Sprintf("#%d", m.SurahNumber)
	}
	return model.NormalizeSurahName(m.Surah)
}
