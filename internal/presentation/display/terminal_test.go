package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
	"github.com/andalus/go-taraweeh-monitor/internal/core/playback"
	"github.com/andalus/go-taraweeh-monitor/internal/core/syncer"
	"github.com/andalus/go-taraweeh-monitor/internal/core/timeline"
)

func newTestDisplay(buf *bytes.Buffer) *TerminalDisplay {
	td := NewTerminalDisplay()
	td.SetOutput(buf)
	td.SetWidth(80)
	return td
}

func sampleSnapshot() Snapshot {
	return Snapshot{
		Day:          3,
		PartID:       2,
		PartCount:    2,
		CurrentTime:  754,
		PartDuration: 3600,
		PlayerState:  playback.StatePlaying,
		Marker: timeline.Marker{
			Marker: model.Marker{
				Surah:       "Al-Baqarah",
				SurahNumber: 2,
				Ayah:        255,
				Juz:         3,
			},
			Label: model.ParseReciter("Hasan"),
		},
		HasMarker: true,
		Mode:      syncer.Following,
		Text: model.AyahText{
			Arabic:    "اللّهُ لاَ إِلَـهَ إِلاَّ هُوَ",
			English:   "Allah, there is no deity except Him, the Ever-Living.",
			Available: true,
		},
	}
}

func TestRenderDashboard(t *testing.T) {
	var buf bytes.Buffer
	newTestDisplay(&buf).Render(sampleSnapshot())

	out := buf.String()
	assert.Contains(t, out, "Taraweeh Night 3")
	assert.Contains(t, out, "part 2 of 2")
	assert.Contains(t, out, "playing")
	assert.Contains(t, out, "12:34")
	assert.Contains(t, out, "1:00:00")
	assert.Contains(t, out, "Al-Baqarah")
	assert.Contains(t, out, "2:255")
	assert.Contains(t, out, "Reciter: Hasan")
	assert.Contains(t, out, "[high]")
	assert.Contains(t, out, "Juz 3")
	assert.Contains(t, out, "Ever-Living")
	assert.Contains(t, out, "q quit")
}

func TestRenderPausedModeIndicator(t *testing.T) {
	snap := sampleSnapshot()
	snap.Mode = syncer.ManuallyPaused

	var buf bytes.Buffer
	newTestDisplay(&buf).Render(snap)
	assert.Contains(t, buf.String(), "[display paused]")
}

func TestRenderQualityTag(t *testing.T) {
	snap := sampleSnapshot()
	snap.Marker.Quality = "inferred"

	var buf bytes.Buffer
	newTestDisplay(&buf).Render(snap)
	assert.Contains(t, buf.String(), "[inferred]")
}

func TestRenderUnavailableTranslation(t *testing.T) {
	snap := sampleSnapshot()
	snap.Text = model.AyahText{}

	var buf bytes.Buffer
	newTestDisplay(&buf).Render(snap)
	assert.Contains(t, buf.String(), "translation unavailable")
}

func TestRenderWithoutMarkers(t *testing.T) {
	snap := Snapshot{Day: 1, PartID: 1, PartCount: 1, PlayerState: playback.StateUnstarted}

	var buf bytes.Buffer
	newTestDisplay(&buf).Render(snap)

	out := buf.String()
	assert.Contains(t, out, "waiting for markers")
	assert.NotContains(t, out, "Reciter:")
}

func TestRenderStatusMessage(t *testing.T) {
	snap := sampleSnapshot()
	snap.StatusMessage = "marker file reloaded"

	var buf bytes.Buffer
	newTestDisplay(&buf).Render(snap)
	assert.Contains(t, buf.String(), "marker file reloaded")
}

func TestAlternateScreenLifecycle(t *testing.T) {
	var buf bytes.Buffer
	td := newTestDisplay(&buf)

	td.EnterAlternateScreen()
	td.EnterAlternateScreen()
	td.ExitAlternateScreen()

	out := buf.String()
	assert.Equal(t, 1, bytes.Count([]byte(out), []byte("\033[?1049h")))
	assert.Contains(t, out, "\033[?1049l")
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five", 9)
	assert.Equal(t, []string{"one two", "three", "four five"}, lines)

	assert.Nil(t, wrapText("", 20))
	assert.Equal(t, []string{"single"}, wrapText("single", 20))
}
