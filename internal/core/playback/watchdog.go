package playback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andalus/go-taraweeh-monitor/internal/core/constants"
	"github.com/andalus/go-taraweeh-monitor/internal/util"
)

// WatchdogConfig tunes the polling heuristics. Zero values fall back to the
// defaults below.
type WatchdogConfig struct {
	PollInterval     time.Duration
	StallEpsilon     float64 // seconds of advance below which a poll counts as stalled
	StallThreshold   int     // consecutive stalled polls before a replay nudge
	BufferingTimeout time.Duration
	ForcedPauseDelay time.Duration
	BufferingNudge   float64 // forward seek distance on a buffering stall

	// Visibility reports whether the viewer is actually watching. Stall
	// detection only counts while visible. Defaults to always-visible.
	Visibility func() bool
}

func (c *WatchdogConfig) applyDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = constants.DefaultPollInterval
	}
	if c.StallEpsilon <= 0 {
		c.StallEpsilon = constants.StallEpsilonSeconds
	}
	if c.StallThreshold <= 0 {
		c.StallThreshold = constants.StallThresholdPolls
	}
	if c.BufferingTimeout <= 0 {
		c.BufferingTimeout = constants.BufferingTimeout
	}
	if c.ForcedPauseDelay <= 0 {
		c.ForcedPauseDelay = constants.ForcedPauseReplayDelay
	}
	if c.BufferingNudge <= 0 {
		c.BufferingNudge = constants.BufferingNudgeSeconds
	}
	if c.Visibility == nil {
		c.Visibility = func() bool { return true }
	}
}

// TimeUpdate is one sample of the player's wall-clock position.
type TimeUpdate struct {
	Seconds float64
	State   State
}

// SeekRequest is an explicit seek issued by the synchronizer. Nonce increases
// monotonically per request so stale requests are ignored.
type SeekRequest struct {
	Target float64
	Nonce  uint64
}

// Watchdog wraps an external player, polls its state at a fixed cadence, and
// issues best-effort corrective actions on stalls, silent buffering and
// unintended pauses. It never crashes the host: every player error is
// swallowed.
type Watchdog struct {
	player Player
	cfg    WatchdogConfig

	updates chan TimeUpdate
	seeks   chan SeekRequest

	mu              sync.Mutex
	lastTime        float64
	lastState       State
	stallCount      int
	volumeZeroCount int
	bufferingSince  time.Time
	lastSeekNonce   uint64
	suppressUntil   time.Time // corrective pause recovery suppressed after our own actions
	pausedAt        time.Time
	pauseRecovered  bool
	replayTimer     *time.Timer
}

// NewWatchdog creates a Watchdog around the given player.
func NewWatchdog(player Player, cfg WatchdogConfig) *Watchdog {
	cfg.applyDefaults()
	return &Watchdog{
		player:    player,
		cfg:       cfg,
		updates:   make(chan TimeUpdate, 16),
		seeks:     make(chan SeekRequest, 4),
		lastState: StateUnstarted,
	}
}

// Updates returns the current-time feed consumed by the synchronizer.
func (w *Watchdog) Updates() <-chan TimeUpdate {
	return w.updates
}

// RequestSeek queues an explicit seek. Requests with a nonce at or below the
// last served one are dropped.
func (w *Watchdog) RequestSeek(req SeekRequest) {
	select {
	case w.seeks <- req:
	default:
		util.LogWarn(fmt.Sprintf("Seek request %d dropped: queue full", req.Nonce))
	}
}

// Run polls the player until ctx is cancelled. Corrective branches are
// mutually exclusive per tick so corrections never compound.
func (w *Watchdog) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()
	defer w.teardown()

	for {
		select {
		case <-ctx.Done():
			return
		case req := <-w.seeks:
			w.handleSeek(req)
		case <-ticker.C:
			w.tick(time.Now())
		}
	}
}

func (w *Watchdog) teardown() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.replayTimer != nil {
		w.replayTimer.Stop()
		w.replayTimer = nil
	}
}

// handleSeek seeks, resumes playback, and publishes the new position
// immediately instead of waiting for the next poll tick.
func (w *Watchdog) handleSeek(req SeekRequest) {
	w.mu.Lock()
	if req.Nonce <= w.lastSeekNonce {
		w.mu.Unlock()
		util.LogDebug(fmt.Sprintf("Ignoring stale seek request %d", req.Nonce))
		return
	}
	w.lastSeekNonce = req.Nonce
	w.suppressUntil = time.Now().Add(2 * w.cfg.PollInterval)
	w.stallCount = 0
	w.bufferingSince = time.Time{}
	w.mu.Unlock()

	w.try("seek", func() error { return w.player.SeekTo(req.Target, true) })
	w.try("play", w.player.Play)

	seconds, err := w.player.CurrentTime()
	if err != nil {
		seconds = req.Target
	}
	w.mu.Lock()
	w.lastTime = seconds
	w.mu.Unlock()
	w.publish(TimeUpdate{Seconds: seconds, State: StatePlaying})
}

// tick runs one poll. Exported through Run; split out for tests.
func (w *Watchdog) tick(now time.Time) {
	state, err := w.player.State()
	if err != nil {
		util.LogDebug(fmt.Sprintf("Player state poll failed: %v", err))
		return
	}

	switch state {
	case StatePlaying:
		w.tickPlaying()
	case StateBuffering:
		w.tickBuffering(now)
	case StatePaused:
		w.tickPaused(now)
	default:
		w.mu.Lock()
		w.stallCount = 0
		w.volumeZeroCount = 0
		w.bufferingSince = time.Time{}
		w.mu.Unlock()
	}

	w.mu.Lock()
	prev := w.lastState
	w.lastState = state
	seconds := w.lastTime
	w.mu.Unlock()

	if prev != state {
		util.LogDebug(fmt.Sprintf("Player state: %s -> %s", prev, state))
	}
	w.publish(TimeUpdate{Seconds: seconds, State: state})
}

func (w *Watchdog) tickPlaying() {
	seconds, err := w.player.CurrentTime()
	if err != nil {
		util.LogDebug(fmt.Sprintf("Player time poll failed: %v", err))
		return
	}

	w.mu.Lock()
	advance := seconds - w.lastTime
	w.lastTime = seconds
	w.bufferingSince = time.Time{}
	w.pausedAt = time.Time{}
	w.pauseRecovered = false

	stalled := false
	if advance < w.cfg.StallEpsilon && w.cfg.Visibility() {
		w.stallCount++
		if w.stallCount >= w.cfg.StallThreshold {
			w.stallCount = 0
			stalled = true
		}
	} else {
		w.stallCount = 0
	}
	w.mu.Unlock()

	if stalled {
		// One best-effort nudge per threshold crossing, not a storm.
		util.LogWarn(fmt.Sprintf("Playback stalled at %.1fs, reissuing play", seconds))
		w.unmuteIfMuted()
		w.try("play", w.player.Play)
		return
	}

	w.guardVolume()
}

func (w *Watchdog) tickBuffering(now time.Time) {
	w.mu.Lock()
	w.stallCount = 0
	if w.bufferingSince.IsZero() {
		w.bufferingSince = now
		w.mu.Unlock()
		return
	}
	expired := now.Sub(w.bufferingSince) >= w.cfg.BufferingTimeout
	if expired {
		// Re-arm rather than clear: buffering may persist and the timeout
		// must reapply.
		w.bufferingSince = now
	}
	seconds := w.lastTime
	w.mu.Unlock()

	if expired {
		util.LogWarn(fmt.Sprintf("Buffering stall at %.1fs, nudging forward", seconds))
		w.try("seek", func() error { return w.player.SeekTo(seconds+w.cfg.BufferingNudge, true) })
		w.try("play", w.player.Play)
	}
}

func (w *Watchdog) tickPaused(now time.Time) {
	w.mu.Lock()
	w.stallCount = 0
	w.volumeZeroCount = 0

	if w.lastState == StatePlaying && now.Before(w.suppressUntil) {
		// Pause right after our own seek/replay is expected, not a glitch.
		w.pauseRecovered = true
	}
	if w.lastState == StatePlaying && w.pausedAt.IsZero() {
		w.pausedAt = now
	}
	shouldRecover := !w.pausedAt.IsZero() && !w.pauseRecovered && now.After(w.suppressUntil)
	if shouldRecover {
		w.pauseRecovered = true
	}
	w.mu.Unlock()

	if shouldRecover {
		// Platform glitch: playing -> paused with no request from us.
		// Reissue play once after a short delay.
		util.LogWarn("Unrequested pause detected, scheduling replay")
		w.scheduleReplay()
	}
}

func (w *Watchdog) scheduleReplay() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.replayTimer != nil {
		w.replayTimer.Stop()
	}
	w.replayTimer = time.AfterFunc(w.cfg.ForcedPauseDelay, func() {
		w.try("play", w.player.Play)
	})
}

// guardVolume forces volume to maximum after two consecutive zero-volume
// polls while playing, and unmutes a muted player on the way.
func (w *Watchdog) guardVolume() {
	vc, ok := w.player.(VolumeController)
	if !ok {
		return
	}
	volume, err := vc.Volume()
	if err != nil {
		return
	}

	w.mu.Lock()
	if volume > 0 {
		w.volumeZeroCount = 0
		w.mu.Unlock()
		return
	}
	w.volumeZeroCount++
	force := w.volumeZeroCount >= 2
	if force {
		w.volumeZeroCount = 0
	}
	w.mu.Unlock()

	if force {
		util.LogWarn("Player volume stuck at zero, forcing to maximum")
		w.unmuteIfMuted()
		w.try("set volume", func() error { return vc.SetVolume(100) })
	}
}

func (w *Watchdog) unmuteIfMuted() {
	m, ok := w.player.(Muter)
	if !ok {
		return
	}
	muted, err := m.IsMuted()
	if err != nil || !muted {
		return
	}
	w.try("unmute", m.Unmute)
}

// try runs a best-effort corrective call, logging and swallowing any error.
func (w *Watchdog) try(action string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			util.LogDebug(fmt.Sprintf("Player %s panicked: %v", action, r))
		}
	}()
	if err := fn(); err != nil {
		util.LogDebug(fmt.Sprintf("Player %s failed: %v", action, err))
	}
}

func (w *Watchdog) publish(update TimeUpdate) {
	select {
	case w.updates <- update:
	default:
		// Consumer lagging; drop the sample rather than block the poll loop.
	}
}
