package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andalus/go-taraweeh-monitor/internal/core/timeline"
)

func TestProgressCumulativeAndNonDecreasing(t *testing.T) {
	days := []DayTimeline{
		{Day: 1, Markers: []timeline.Marker{
			mk(0, "Al-Baqarah", 2, 1, withQuality("high"), withJuz(1)),
			mk(900, "Al-Baqarah", 2, 142, withQuality("high"), withJuz(2)),
		}},
		{Day: 2, Markers: []timeline.Marker{
			mk(0, "Al-Baqarah", 2, 200, withQuality("high"), withJuz(2)),
			mk(600, "Al-Imran", 3, 1, withQuality("high"), withJuz(3)),
		}},
		{Day: 3, Markers: nil},
	}

	points := Progress(days)
	require.Len(t, points, 3)

	assert.Equal(t, ProgressPoint{Day: 1, JuzCount: 2, SurahCount: 1}, points[0])
	assert.Equal(t, ProgressPoint{Day: 2, JuzCount: 3, SurahCount: 2}, points[1])
	// A day with no markers still emits a point; counts carry forward.
	assert.Equal(t, ProgressPoint{Day: 3, JuzCount: 3, SurahCount: 2}, points[2])

	for i := 1; i < len(points); i++ {
		assert.GreaterOrEqual(t, points[i].JuzCount, points[i-1].JuzCount)
		assert.GreaterOrEqual(t, points[i].SurahCount, points[i-1].SurahCount)
	}
}

func TestProgressIgnoresInferredWhenBetterExists(t *testing.T) {
	days := []DayTimeline{
		{Day: 1, Markers: []timeline.Marker{
			mk(0, "Al-Baqarah", 2, 1, withQuality("high"), withJuz(1)),
			mk(100, "An-Nisa", 4, 1, withQuality("inferred"), withJuz(4)),
		}},
	}

	points := Progress(days)
	require.Len(t, points, 1)
	// The inferred marker's juz and surah do not count.
	assert.Equal(t, 1, points[0].JuzCount)
	assert.Equal(t, 1, points[0].SurahCount)
}

func TestProgressDegradesToInferredOnlyDay(t *testing.T) {
	days := []DayTimeline{
		{Day: 1, Markers: []timeline.Marker{
			mk(0, "Al-Baqarah", 2, 1, withQuality("inferred"), withJuz(1)),
			mk(100, "Al-Imran", 3, 1, withQuality("inferred"), withJuz(3)),
		}},
	}

	points := Progress(days)
	require.Len(t, points, 1)
	// Nothing better exists, so all of the day's markers count.
	assert.Equal(t, 2, points[0].JuzCount)
	assert.Equal(t, 2, points[0].SurahCount)
}

func TestProgressUnorderedInputDays(t *testing.T) {
	days := []DayTimeline{
		{Day: 2, Markers: []timeline.Marker{
			mk(0, "Al-Imran", 3, 1, withQuality("high"), withJuz(3)),
		}},
		{Day: 1, Markers: []timeline.Marker{
			mk(0, "Al-Baqarah", 2, 1, withQuality("high"), withJuz(1)),
		}},
	}

	points := Progress(days)
	require.Len(t, points, 2)
	assert.Equal(t, 1, points[0].Day)
	assert.Equal(t, 1, points[0].SurahCount)
	assert.Equal(t, 2, points[1].SurahCount)
}

func TestProgressMarkersWithoutJuz(t *testing.T) {
	days := []DayTimeline{
		{Day: 1, Markers: []timeline.Marker{
			mk(0, "Al-Baqarah", 2, 1, withQuality("high")),
		}},
	}

	points := Progress(days)
	require.Len(t, points, 1)
	assert.Equal(t, 0, points[0].JuzCount)
	assert.Equal(t, 1, points[0].SurahCount)
}
