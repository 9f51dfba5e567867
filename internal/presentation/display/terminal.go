package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/andalus/go-taraweeh-monitor/internal/core/playback"
	"github.com/andalus/go-taraweeh-monitor/internal/core/syncer"
	"github.com/andalus/go-taraweeh-monitor/internal/util"
)

const (
	defaultWidth = 80
	maxWidth     = 110
)

// TerminalDisplay renders the follow dashboard into the alternate screen
// buffer. Rendering rewrites the whole frame from the home position and
// clears each line as it goes, so stale content never bleeds through.
type TerminalDisplay struct {
	w                 io.Writer
	inAlternateScreen bool
	isFirstRender     bool
	width             func() int
}

func NewTerminalDisplay() *TerminalDisplay {
	return &TerminalDisplay{
		w:             os.Stdout,
		isFirstRender: true,
		width:         terminalWidth,
	}
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	if w > maxWidth {
		return maxWidth
	}
	return w
}

// SetOutput redirects rendering, primarily for tests.
func (td *TerminalDisplay) SetOutput(w io.Writer) {
	td.w = w
}

// SetWidth overrides terminal width detection, primarily for tests.
func (td *TerminalDisplay) SetWidth(width int) {
	td.width = func() int { return width }
}

// EnterAlternateScreen switches to the alternate screen buffer.
func (td *TerminalDisplay) EnterAlternateScreen() {
	if !td.inAlternateScreen {
		fmt.Fprint(td.w, "\033[?1049h")
		fmt.Fprint(td.w, util.ClearScreen)
		fmt.Fprint(td.w, util.ClearScrollback)
		fmt.Fprint(td.w, util.ResetScrollRegion)
		fmt.Fprint(td.w, util.HideCursor)
		fmt.Fprint(td.w, util.MoveCursorHome)
		td.inAlternateScreen = true
		td.isFirstRender = true
	}
}

// ExitAlternateScreen returns to the normal screen buffer.
func (td *TerminalDisplay) ExitAlternateScreen() {
	if td.inAlternateScreen {
		fmt.Fprint(td.w, util.ClearScreen)
		fmt.Fprint(td.w, util.MoveCursorHome)
		fmt.Fprint(td.w, util.ShowCursor)
		fmt.Fprint(td.w, "\033[?1049l")
		td.inAlternateScreen = false
	}
}

// Render draws one frame of the dashboard.
func (td *TerminalDisplay) Render(snap Snapshot) {
	if td.isFirstRender {
		fmt.Fprint(td.w, util.ClearScreen)
		td.isFirstRender = false
	}
	fmt.Fprint(td.w, util.MoveCursorHome)

	width := td.width()
	for _, line := range td.buildFrame(snap, width) {
		fmt.Fprint(td.w, util.ClearLine)
		fmt.Fprintln(td.w, line)
	}
	fmt.Fprint(td.w, util.ClearLineFromCursor)
}

func (td *TerminalDisplay) buildFrame(snap Snapshot, width int) []string {
	lines := make([]string, 0, 16)

	title := fmt.Sprintf("Taraweeh Night %d", snap.Day)
	if snap.PartCount > 1 {
		title = fmt.Sprintf("%s  (part %d of %d)", title, snap.PartID, snap.PartCount)
	}
	lines = append(lines,
		util.FormatHeaderTitle(util.CenterText(title, width)),
		strings.Repeat("─", width),
		"")

	lines = append(lines, td.playerLine(snap, width)...)
	lines = append(lines, "")
	lines = append(lines, td.recitationLines(snap, width)...)
	lines = append(lines, "")
	lines = append(lines, td.textLines(snap, width)...)
	lines = append(lines, "")

	if snap.StatusMessage != "" {
		lines = append(lines, util.FormatWarning(util.TruncateToWidth(snap.StatusMessage, width)), "")
	}

	lines = append(lines,
		strings.Repeat("─", width),
		util.ColorDim+" space pause/resume   ←/→ step ayah   1-9 jump to surah   q quit"+util.ColorReset)
	return lines
}

func (td *TerminalDisplay) playerLine(snap Snapshot, width int) []string {
	state := snap.PlayerState.String()
	switch snap.PlayerState {
	case playback.StatePlaying:
		state = util.ColorGreen + state + util.ColorReset
	case playback.StateBuffering:
		state = util.ColorYellow + state + util.ColorReset
	case playback.StatePaused, playback.StateEnded:
		state = util.ColorRed + state + util.ColorReset
	}

	line := fmt.Sprintf(" Player: %s   %s", state, util.FormatClock(snap.CurrentTime))
	if snap.PartDuration > 0 {
		pct := snap.CurrentTime / snap.PartDuration * 100
		if pct > 100 {
			pct = 100
		}
		line = fmt.Sprintf("%s / %s  %s", line, util.FormatClock(snap.PartDuration),
			util.CreateProgressBar(pct, width/2))
	}
	return []string{line}
}

func (td *TerminalDisplay) recitationLines(snap Snapshot, width int) []string {
	if !snap.HasMarker {
		return []string{util.FormatSectionTitle(" Now Reciting"), "   waiting for markers..."}
	}

	m := snap.Marker
	ref := util.FormatAyahRef(m.Surah, m.SurahNumber, m.Ayah)
	mode := ""
	if snap.Mode == syncer.ManuallyPaused {
		mode = "   " + util.FormatWarning("[display paused]")
	}

	quality := util.ColorDim + "[" + string(m.QualityTier()) + "]" + util.ColorReset

	lines := []string{
		util.FormatSectionTitle(" Now Reciting") + mode,
		fmt.Sprintf("   %s%s%s  %s  %s", util.ColorBold, m.Surah, util.ColorReset, ref, quality),
		fmt.Sprintf("   Reciter: %s", m.Label.DisplayName()),
	}
	if m.HasJuz() {
		lines = append(lines, fmt.Sprintf("   Juz %d", m.Juz))
	}
	return lines
}

func (td *TerminalDisplay) textLines(snap Snapshot, width int) []string {
	if !snap.HasMarker {
		return nil
	}
	if !snap.Text.Available {
		return []string{util.ColorDim + "   translation unavailable" + util.ColorReset}
	}

	lines := make([]string, 0, 4)
	if snap.Text.Arabic != "" {
		lines = append(lines, "   "+util.TruncateToWidth(snap.Text.Arabic, width-6))
	}
	if snap.Text.English != "" {
		for _, wrapped := range wrapText(snap.Text.English, width-6) {
			lines = append(lines, "   "+wrapped)
		}
	}
	return lines
}

// wrapText breaks a line on word boundaries to fit the given display width.
func wrapText(text string, width int) []string {
	if width < 10 {
		width = 10
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if util.GetDisplayWidth(current)+1+util.GetDisplayWidth(word) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	return append(lines, current)
}
