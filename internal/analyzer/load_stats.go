package analyzer

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
	"github.com/andalus/go-taraweeh-monitor/internal/core/timeline"
	"github.com/andalus/go-taraweeh-monitor/internal/util"
)

// LoadStats tracks marker counts across loaded days, broken down by quality
// tier and reciter.
type LoadStats struct {
	totalDays    int64
	totalMarkers int64
	mu           sync.Mutex
	byQuality    map[model.Quality]int
	byReciter    map[string]int
}

// NewLoadStats creates a new LoadStats instance.
func NewLoadStats() *LoadStats {
	return &LoadStats{
		byQuality: make(map[model.Quality]int),
		byReciter: make(map[string]int),
	}
}

// RecordDay folds one day's stitched timeline into the counters.
func (ls *LoadStats) RecordDay(markers []timeline.Marker) {
	atomic.AddInt64(&ls.totalDays, 1)
	atomic.AddInt64(&ls.totalMarkers, int64(len(markers)))

	ls.mu.Lock()
	for _, m := range markers {
		ls.byQuality[m.QualityTier()]++
		ls.byReciter[m.Label.DisplayName()]++
	}
	ls.mu.Unlock()
}

// GetStats returns the current day and marker totals.
func (ls *LoadStats) GetStats() (days, markers int64) {
	return atomic.LoadInt64(&ls.totalDays), atomic.LoadInt64(&ls.totalMarkers)
}

// PrintFinalStats logs the load totals and the quality and reciter breakdowns.
func (ls *LoadStats) PrintFinalStats() {
	days, markers := ls.GetStats()
	util.LogInfo(fmt.Sprintf("Loaded %d markers across %d days", markers, days))

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if len(ls.byQuality) > 0 {
		util.LogDebug("Marker quality breakdown:")
		for _, q := range []model.Quality{model.QualityHigh, model.QualityManual, model.QualityAmbiguous, model.QualityInferred} {
			if count := ls.byQuality[q]; count > 0 {
				util.LogDebug(fmt.Sprintf("  %s: %d markers", q, count))
			}
		}
	}

	if len(ls.byReciter) > 0 {
		names := make([]string, 0, len(ls.byReciter))
		for name := range ls.byReciter {
			names = append(names, name)
		}
		sort.Strings(names)

		util.LogDebug("Reciter breakdown:")
		for _, name := range names {
			util.LogDebug(fmt.Sprintf("  %s: %d markers", name, ls.byReciter[name]))
		}
	}
}
