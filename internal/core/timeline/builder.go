package timeline

import (
	"sort"

	"github.com/andalus/go-taraweeh-monitor/internal/core/constants"
	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
)

// PartGapSeconds is the fixed gap inserted between consecutive parts when
// stitching their local times into one global timeline.
const PartGapSeconds = constants.PartGapSeconds

// Build stitches the parts' markers into a single ordered timeline.
//
// Each part's markers are sorted ascending by local time (the source does not
// guarantee order), then rewritten to localTime + runningOffset and tagged
// with the originating part. After a part is folded in, the offset advances
// to the maximum adjusted time plus PartGapSeconds; a part with no markers
// leaves the offset unchanged. The resulting GlobalTime values are
// non-decreasing across part boundaries.
func Build(parts []PartMarkers) []Marker {
	var result []Marker
	runningOffset := 0.0

	for _, part := range parts {
		if len(part.Markers) == 0 {
			continue
		}

		local := make([]model.Marker, len(part.Markers))
		copy(local, part.Markers)
		sort.SliceStable(local, func(i, j int) bool {
			return local[i].Time < local[j].Time
		})

		maxAdjusted := runningOffset
		for _, m := range local {
			adjusted := m.Time + runningOffset
			if adjusted > maxAdjusted {
				maxAdjusted = adjusted
			}
			result = append(result, Marker{
				Marker:     m,
				PartID:     part.PartID,
				GlobalTime: adjusted,
				SeekTime:   m.Time,
				Label:      model.ParseReciter(m.Reciter),
			})
		}

		runningOffset = maxAdjusted + PartGapSeconds
	}

	smoothReciters(result)
	return result
}

// smoothReciters relabels talk/interstitial markers to the nearest adjacent
// performer. The prior performer takes precedence; a talk marker with no
// prior performer takes the next one; with neither it stays Unknown.
//
// Runs in two passes over the time-sorted sequence: a right-to-left scan
// computing "next performer at or after i", then a left-to-right scan
// tracking the most recent performer.
func smoothReciters(markers []Marker) {
	if len(markers) == 0 {
		return
	}

	next := make([]model.ReciterLabel, len(markers))
	following := model.ReciterLabel{Kind: model.ReciterUnknown}
	haveNext := make([]bool, len(markers))
	haveFollowing := false
	for i := len(markers) - 1; i >= 0; i-- {
		if markers[i].Label.IsPerformer() {
			following = markers[i].Label
			haveFollowing = true
		}
		next[i] = following
		haveNext[i] = haveFollowing
	}

	var previous model.ReciterLabel
	havePrevious := false
	for i := range markers {
		if markers[i].Label.IsPerformer() {
			previous = markers[i].Label
			havePrevious = true
			continue
		}
		if markers[i].Label.Kind != model.ReciterTalk {
			continue
		}
		switch {
		case havePrevious:
			markers[i].Label = previous
		case haveNext[i]:
			markers[i].Label = next[i]
		default:
			markers[i].Label = model.UnknownReciter
		}
	}
}
