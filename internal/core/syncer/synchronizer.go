package syncer

import (
	"context"
	"fmt"
	"sort"
	gosync "sync"

	"github.com/andalus/go-taraweeh-monitor/internal/core/cache"
	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
	"github.com/andalus/go-taraweeh-monitor/internal/core/playback"
	"github.com/andalus/go-taraweeh-monitor/internal/core/timeline"
	"github.com/andalus/go-taraweeh-monitor/internal/util"
)

// Mode is the synchronizer's manual state machine.
type Mode int

const (
	// Following tracks the live playback position.
	Following Mode = iota
	// ManuallyPaused freezes the displayed marker while playback continues.
	ManuallyPaused
)

func (m Mode) String() string {
	if m == ManuallyPaused {
		return "paused"
	}
	return "following"
}

// Seeker accepts explicit seek commands. Implemented by the watchdog.
type Seeker interface {
	RequestSeek(playback.SeekRequest)
}

// TextFetcher looks up ayah text. Implemented by the quran client.
type TextFetcher interface {
	FetchAyah(ctx context.Context, key model.TextKey) (model.AyahText, error)
}

// PartSwitchFunc is invoked when an explicit seek targets a different part.
// The part is switched first and the seek deferred until its player is ready.
type PartSwitchFunc func(partID int, seekTime float64)

// Synchronizer maps the player's wall-clock time onto the active part's
// marker sequence and exposes the Following / ManuallyPaused state machine.
//
// The displayed ("now reciting") marker is the last marker whose part-local
// time is at or before the current playback time. Before the first marker the
// first one is displayed.
type Synchronizer struct {
	mu gosync.Mutex

	dayMarkers  []timeline.Marker // full day timeline, global order
	partMarkers []timeline.Marker // active part only, sorted by local time
	activePart  int

	mode        Mode
	activeIdx   int // -1 when the timeline is empty
	frozenIdx   int
	currentTime float64

	seekNonce  uint64
	generation int64 // bumped on every timeline swap; stale async results are discarded

	seeker     Seeker
	switchPart PartSwitchFunc
	textCache  *cache.TextCache
	fetcher    TextFetcher
	ctx        context.Context
}

// New creates a Synchronizer. fetcher and textCache may be nil to disable
// text lookups; switchPart may be nil for single-part days.
func New(ctx context.Context, seeker Seeker, fetcher TextFetcher, textCache *cache.TextCache, switchPart PartSwitchFunc) *Synchronizer {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Synchronizer{
		activeIdx:  -1,
		frozenIdx:  -1,
		seeker:     seeker,
		fetcher:    fetcher,
		textCache:  textCache,
		switchPart: switchPart,
		ctx:        ctx,
	}
}

// SetTimeline installs a day's markers and the active part. All ephemeral
// state (active index, manual pause) resets, and the text cache is cleared:
// the effective video identity changed.
func (s *Synchronizer) SetTimeline(dayMarkers []timeline.Marker, activePart int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dayMarkers = dayMarkers
	s.activePart = activePart
	s.partMarkers = s.partMarkers[:0]
	for _, m := range dayMarkers {
		if m.PartID == activePart {
			s.partMarkers = append(s.partMarkers, m)
		}
	}
	sort.SliceStable(s.partMarkers, func(i, j int) bool {
		return s.partMarkers[i].SeekTime < s.partMarkers[j].SeekTime
	})

	s.mode = Following
	s.activeIdx = -1
	s.frozenIdx = -1
	s.currentTime = 0
	s.generation++
	if s.textCache != nil {
		s.textCache.Clear()
	}
}

// ActivePart returns the part whose player feeds the current time.
func (s *Synchronizer) ActivePart() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activePart
}

// DayMarkers returns the full day timeline handed in by the store. Read-only
// by contract.
func (s *Synchronizer) DayMarkers() []timeline.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dayMarkers
}

// Advance feeds a new playback time sample. In Following mode the active
// marker is re-resolved; in ManuallyPaused mode only the time is recorded.
func (s *Synchronizer) Advance(currentTime float64) {
	s.mu.Lock()
	s.currentTime = currentTime
	if s.mode == ManuallyPaused {
		s.mu.Unlock()
		return
	}

	newIdx := resolveActive(s.partMarkers, currentTime)
	changed := newIdx != s.activeIdx
	s.activeIdx = newIdx
	var marker timeline.Marker
	if changed && newIdx >= 0 {
		marker = s.partMarkers[newIdx]
	}
	s.mu.Unlock()

	if changed && newIdx >= 0 {
		s.maybeFetchText(marker)
	}
}

// resolveActive returns the index of the last marker at or before t, index 0
// before the first marker, or -1 for an empty timeline.
func resolveActive(markers []timeline.Marker, t float64) int {
	if len(markers) == 0 {
		return -1
	}
	idx := sort.Search(len(markers), func(i int) bool {
		return markers[i].SeekTime > t
	}) - 1
	if idx < 0 {
		return 0
	}
	return idx
}

// Displayed returns the marker currently shown, honoring a manual pause.
func (s *Synchronizer) Displayed() (timeline.Marker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.activeIdx
	if s.mode == ManuallyPaused {
		idx = s.frozenIdx
	}
	if idx < 0 || idx >= len(s.partMarkers) {
		return timeline.Marker{}, false
	}
	return s.partMarkers[idx], true
}

// Mode returns the current manual state.
func (s *Synchronizer) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Pause freezes the displayed marker at the current active index. The player
// keeps playing; only the display stops following.
func (s *Synchronizer) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ManuallyPaused {
		return
	}
	s.mode = ManuallyPaused
	s.frozenIdx = s.activeIdx
}

// Resume returns to live following. It does not seek the player: the display
// simply reflects the continuing video time again.
func (s *Synchronizer) Resume() {
	s.mu.Lock()
	if s.mode == Following {
		s.mu.Unlock()
		return
	}
	s.mode = Following
	s.frozenIdx = -1
	s.activeIdx = resolveActive(s.partMarkers, s.currentTime)
	idx := s.activeIdx
	var marker timeline.Marker
	if idx >= 0 {
		marker = s.partMarkers[idx]
	}
	s.mu.Unlock()

	if idx >= 0 {
		s.maybeFetchText(marker)
	}
}

// StepForward moves the frozen display one marker later, clamped to the end.
// Only valid while manually paused; the player is untouched.
func (s *Synchronizer) StepForward() {
	s.step(1)
}

// StepBackward moves the frozen display one marker earlier, clamped to the
// start.
func (s *Synchronizer) StepBackward() {
	s.step(-1)
}

func (s *Synchronizer) step(delta int) {
	s.mu.Lock()
	if s.mode != ManuallyPaused || len(s.partMarkers) == 0 {
		s.mu.Unlock()
		return
	}
	idx := s.frozenIdx + delta
	if idx < 0 {
		idx = 0
	}
	if idx > len(s.partMarkers)-1 {
		idx = len(s.partMarkers) - 1
	}
	s.frozenIdx = idx
	marker := s.partMarkers[idx]
	s.mu.Unlock()

	s.maybeFetchText(marker)
}

// SeekTo issues an explicit seek to a part-local time, forcing Following
// mode. A target in a different part switches the part first; the seek is
// deferred until the new part's player is ready.
func (s *Synchronizer) SeekTo(partID int, seekTime float64) {
	s.mu.Lock()
	s.mode = Following
	s.frozenIdx = -1
	samePart := partID == s.activePart
	var nonce uint64
	if samePart {
		s.seekNonce++
		nonce = s.seekNonce
	}
	s.mu.Unlock()

	if samePart {
		if s.seeker != nil {
			s.seeker.RequestSeek(playback.SeekRequest{Target: seekTime, Nonce: nonce})
		}
		return
	}
	if s.switchPart != nil {
		s.switchPart(partID, seekTime)
	} else {
		util.LogWarn(fmt.Sprintf("Seek targets part %d but no part switcher is wired", partID))
	}
}

// NextSeekNonce hands out a fresh nonce for callers issuing their own seek
// requests (e.g. after a deferred part switch).
func (s *Synchronizer) NextSeekNonce() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seekNonce++
	return s.seekNonce
}

// maybeFetchText starts a best-effort async text fetch for a marker that has
// an ayah reference but no cached text. Results landing after a timeline
// swap are discarded via the generation check.
func (s *Synchronizer) maybeFetchText(m timeline.Marker) {
	if s.fetcher == nil || s.textCache == nil {
		return
	}
	if m.SurahNumber < 1 || m.Ayah < 1 {
		return
	}
	if m.ArabicText != "" && m.EnglishText != "" {
		return
	}

	key := model.TextKey{SurahNumber: m.SurahNumber, Ayah: m.Ayah}
	if !s.textCache.BeginFetch(key) {
		return
	}

	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	go func() {
		text, err := s.fetcher.FetchAyah(s.ctx, key)
		if err != nil {
			text = model.AyahText{Available: false}
		}

		s.mu.Lock()
		live := gen == s.generation
		s.mu.Unlock()
		if !live {
			return
		}
		s.textCache.Settle(key, text)
	}()
}

// Text returns the cached text for a marker, preferring text embedded in the
// marker itself.
func (s *Synchronizer) Text(m timeline.Marker) model.AyahText {
	if m.ArabicText != "" || m.EnglishText != "" {
		return model.AyahText{Arabic: m.ArabicText, English: m.EnglishText, Available: true}
	}
	if s.textCache == nil || m.SurahNumber < 1 || m.Ayah < 1 {
		return model.AyahText{}
	}
	text, ok := s.textCache.Get(model.TextKey{SurahNumber: m.SurahNumber, Ayah: m.Ayah})
	if !ok {
		return model.AyahText{}
	}
	return text
}
