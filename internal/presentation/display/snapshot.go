package display

import (
	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
	"github.com/andalus/go-taraweeh-monitor/internal/core/playback"
	"github.com/andalus/go-taraweeh-monitor/internal/core/syncer"
	"github.com/andalus/go-taraweeh-monitor/internal/core/timeline"
)

// Snapshot is the full view state for one render pass. The orchestrator's
// state manager hands out copies, so a Snapshot is safe to read without
// locking.
type Snapshot struct {
	Day       int
	PartID    int
	PartCount int

	// CurrentTime is the player position inside the active part, seconds.
	CurrentTime float64
	// PartDuration is the best known length of the active part. Zero when
	// unknown; the progress bar is omitted then.
	PartDuration float64
	PlayerState  playback.State

	Marker    timeline.Marker
	HasMarker bool
	Mode      syncer.Mode
	Text      model.AyahText

	StatusMessage string
}
