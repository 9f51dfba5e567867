package interaction

import (
	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
	"github.com/andalus/go-taraweeh-monitor/internal/core/timeline"
)

// SurahJumpTargets returns the first marker of each distinct surah in
// timeline order. Digit keys jump to these positions, so the slice is capped
// at nine entries.
func SurahJumpTargets(markers []timeline.Marker) []timeline.Marker {
	seen := make(map[string]bool)
	targets := make([]timeline.Marker, 0, 9)
	for _, m := range markers {
		key := model.NormalizeSurahName(m.Surah)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		targets = append(targets, m)
		if len(targets) == 9 {
			break
		}
	}
	return targets
}

// JumpTarget resolves a digit key ('1'..'9') against the jump targets.
func JumpTarget(targets []timeline.Marker, key rune) (timeline.Marker, bool) {
	if key < '1' || key > '9' {
		return timeline.Marker{}, false
	}
	idx := int(key - '1')
	if idx >= len(targets) {
		return timeline.Marker{}, false
	}
	return targets[idx], true
}
