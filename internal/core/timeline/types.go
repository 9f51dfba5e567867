package timeline

import (
	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
)

// Marker is a timeline point annotated with its originating part and the
// offset-adjusted global time used for cross-part ordering.
type Marker struct {
	model.Marker

	// PartID identifies the part the marker came from.
	PartID int

	// GlobalTime is the marker's local time shifted by the running end time
	// of all prior parts plus the inter-part gap. Non-decreasing across the
	// whole timeline.
	GlobalTime float64

	// SeekTime is the marker's original local time within its part, kept for
	// re-seeking into that part's player specifically.
	SeekTime float64

	// Label is the smoothed reciter label. Talk segments are resolved to the
	// nearest adjacent performer during the build pass.
	Label model.ReciterLabel
}

// PartMarkers holds one part's raw markers before stitching.
type PartMarkers struct {
	PartID  int
	Markers []model.Marker
}
