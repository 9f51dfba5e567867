package follow

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	gosync "sync"
	"time"

	"github.com/andalus/go-taraweeh-monitor/internal/core/cache"
	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
	"github.com/andalus/go-taraweeh-monitor/internal/core/playback"
	"github.com/andalus/go-taraweeh-monitor/internal/core/syncer"
	"github.com/andalus/go-taraweeh-monitor/internal/core/timeline"
	markercache "github.com/andalus/go-taraweeh-monitor/internal/data/cache"
	"github.com/andalus/go-taraweeh-monitor/internal/data/parser"
	"github.com/andalus/go-taraweeh-monitor/internal/data/quran"
	"github.com/andalus/go-taraweeh-monitor/internal/data/scanner"
	"github.com/andalus/go-taraweeh-monitor/internal/data/watcher"
	"github.com/andalus/go-taraweeh-monitor/internal/presentation/display"
	"github.com/andalus/go-taraweeh-monitor/internal/presentation/interaction"
	"github.com/andalus/go-taraweeh-monitor/internal/util"
)

// Orchestrator coordinates all components for the follow command
type Orchestrator struct {
	config       *FollowConfig
	stateManager *StateManager

	// Data components
	scanner *scanner.DayScanner
	parser  *parser.Parser

	// Core components
	sync     *syncer.Synchronizer
	watchdog *playback.Watchdog
	player   *playback.MPVPlayer

	// UI components
	display  *display.TerminalDisplay
	keyboard *interaction.KeyboardReader

	// Monitoring
	watcher *watcher.FileWatcher

	textCache *cache.TextCache

	jumpMu      gosync.Mutex
	jumpTargets []timeline.Marker

	pendingMu   gosync.Mutex
	pendingSeek *pendingSeek
}

// pendingSeek is a seek deferred across a part switch, issued once the new
// part's player reports a usable state.
type pendingSeek struct {
	partID   int
	seekTime float64
}

// NewOrchestrator creates a new Orchestrator instance
func NewOrchestrator(config *FollowConfig) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	p := parser.NewParser(config.Concurrency)
	if config.CacheDir != "" {
		mc, err := markercache.NewMarkerCache(config.CacheDir)
		if err != nil {
			util.LogWarn(fmt.Sprintf("Marker cache unavailable: %v", err))
		} else {
			p = parser.NewParserWithCache(config.Concurrency, mc)
		}
	}

	return &Orchestrator{
		config:       config,
		stateManager: NewStateManager(),
		scanner:      scanner.NewDayScanner(config.DataDir),
		parser:       p,
		display:      display.NewTerminalDisplay(),
		textCache:    cache.NewTextCache(),
	}, nil
}

// Run starts the orchestrator main loop
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo(fmt.Sprintf("Starting follow for day %d...", o.config.Day))

	// Phase 1: Connect to the player
	player, err := playback.DialMPV(o.config.SocketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to player: %w", err)
	}
	o.player = player
	defer o.player.Close()

	o.watchdog = playback.NewWatchdog(player, playback.WatchdogConfig{
		PollInterval: o.config.PollInterval,
	})

	var fetcher syncer.TextFetcher
	if o.config.TextService != "" {
		fetcher = quran.NewClient(o.config.TextService)
	}
	o.sync = syncer.New(ctx, o.watchdog, fetcher, o.textCache, o.switchPart)

	// Phase 2: Load the day's timeline
	if err := o.reloadTimeline(o.config.PartID); err != nil {
		return err
	}

	// Phase 3: Initialize keyboard and display
	keyboard, err := interaction.NewKeyboardReader()
	if err != nil {
		return fmt.Errorf("failed to initialize keyboard: %w", err)
	}
	o.keyboard = keyboard
	defer o.keyboard.Close()

	o.display.EnterAlternateScreen()
	defer o.display.ExitAlternateScreen()

	// Phase 4: Start file monitoring. Hot reload is best-effort; follow
	// still works without it.
	var fileEvents <-chan model.FileEvent
	if fw, err := watcher.NewFileWatcher(o.config.DataDir); err != nil {
		util.LogWarn(fmt.Sprintf("File watching disabled: %v", err))
	} else {
		o.watcher = fw
		fileEvents = fw.Events()
		defer o.watcher.Close()
	}

	// Phase 5: Main event loop
	go o.watchdog.Run(ctx)

	uiTicker := time.NewTicker(time.Duration(float64(time.Second) / o.config.UIRefreshRate))
	defer uiTicker.Stop()

	o.render()

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down follow...")
			return nil

		case update := <-o.watchdog.Updates():
			o.handleTimeUpdate(update)

		case <-uiTicker.C:
			o.render()

		case event := <-fileEvents:
			o.handleFileChange(event)

		case keyEvent := <-o.keyboard.Events():
			if o.handleKeyboard(keyEvent) {
				return nil
			}
			o.render()
		}
	}
}

// reloadTimeline loads the day's markers from disk and installs them into
// the synchronizer. partID zero keeps the current part, falling back to the
// first part on the first load.
func (o *Orchestrator) reloadTimeline(partID int) error {
	var files []scanner.PartFile
	if o.config.Catalog != nil {
		files = o.scanner.CatalogFiles(*o.config.Catalog)
	}
	if len(files) == 0 {
		files = o.scanner.DayFiles(o.config.Day)
	}
	if len(files) == 0 {
		return fmt.Errorf("no marker files for day %d in %s", o.config.Day, o.config.DataDir)
	}

	partIDs := make([]int, 0, len(files))
	for _, f := range files {
		partIDs = append(partIDs, f.PartID)
	}

	active := partIDs[0]
	for _, id := range partIDs {
		if id == partID {
			active = id
			break
		}
	}
	if partID != 0 && active != partID {
		util.LogWarn(fmt.Sprintf("Part %d not found for day %d, using part %d", partID, o.config.Day, active))
	}

	markers := timeline.Build(o.parser.LoadParts(files))
	o.sync.SetTimeline(markers, active)

	o.jumpMu.Lock()
	o.jumpTargets = interaction.SurahJumpTargets(markers)
	o.jumpMu.Unlock()

	o.stateManager.Update(func(s *display.Snapshot) {
		s.Day = o.config.Day
		s.PartID = active
		s.PartCount = len(partIDs)
	})
	return nil
}

// handleTimeUpdate feeds a watchdog sample into the synchronizer and flushes
// any seek deferred behind a part switch.
func (o *Orchestrator) handleTimeUpdate(update playback.TimeUpdate) {
	o.sync.Advance(update.Seconds)

	// Best-effort; mpv reports no duration until the stream is probed.
	var duration float64
	if o.player != nil {
		if d, err := o.player.Duration(); err == nil && d > 0 {
			duration = d
		}
	}

	o.stateManager.Update(func(s *display.Snapshot) {
		s.CurrentTime = update.Seconds
		s.PlayerState = update.State
		if duration > 0 {
			s.PartDuration = duration
		}
	})

	if update.State == playback.StateUnstarted {
		return
	}
	o.pendingMu.Lock()
	pending := o.pendingSeek
	if pending != nil && pending.partID == o.sync.ActivePart() {
		o.pendingSeek = nil
	} else {
		pending = nil
	}
	o.pendingMu.Unlock()

	if pending != nil {
		o.watchdog.RequestSeek(playback.SeekRequest{
			Target: pending.seekTime,
			Nonce:  o.sync.NextSeekNonce(),
		})
	}
}

// handleFileChange hot-reloads the timeline when one of this day's marker
// files is rewritten by the indexing pipeline.
func (o *Orchestrator) handleFileChange(event model.FileEvent) {
	if !o.isDayFile(event.Path) {
		return
	}
	util.LogInfo(fmt.Sprintf("Marker file changed: %s", event.Path))
	if err := o.reloadTimeline(o.sync.ActivePart()); err != nil {
		util.LogWarn(fmt.Sprintf("Timeline reload failed: %v", err))
		return
	}
	o.stateManager.SetStatus("markers reloaded")
}

func (o *Orchestrator) isDayFile(path string) bool {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	prefix := fmt.Sprintf("day-%d", o.config.Day)
	return name == prefix || strings.HasPrefix(name, prefix+"-part-")
}

// switchPart replaces the player's media with another part's video and
// defers the seek until the new part reports a usable state.
func (o *Orchestrator) switchPart(partID int, seekTime float64) {
	if o.config.Catalog == nil {
		o.stateManager.SetStatus(fmt.Sprintf("part %d is not in the catalog", partID))
		return
	}
	part, found := o.config.Catalog.PartByID(partID)
	if !found || part.VideoID == "" {
		o.stateManager.SetStatus(fmt.Sprintf("part %d has no video configured", partID))
		return
	}

	if err := o.player.Load(part.VideoID); err != nil {
		util.LogWarn(fmt.Sprintf("Part switch load failed: %v", err))
		o.stateManager.SetStatus("part switch failed")
		return
	}

	o.pendingMu.Lock()
	o.pendingSeek = &pendingSeek{partID: part.ID, seekTime: seekTime}
	o.pendingMu.Unlock()

	o.sync.SetTimeline(o.sync.DayMarkers(), part.ID)
	o.stateManager.Update(func(s *display.Snapshot) {
		s.PartID = part.ID
	})
	o.stateManager.SetStatus(fmt.Sprintf("switching to part %d", part.ID))
}

// handleKeyboard handles keyboard events. Returns true when exit was
// requested.
func (o *Orchestrator) handleKeyboard(event interaction.KeyEvent) bool {
	switch event.Type {
	case interaction.KeyArrowLeft:
		o.sync.StepBackward()
	case interaction.KeyArrowRight:
		o.sync.StepForward()
	case interaction.KeyChar:
		switch event.Key {
		case 'q', 'Q', 3:
			return true
		case ' ':
			if o.sync.Mode() == syncer.Following {
				o.sync.Pause()
			} else {
				o.sync.Resume()
			}
		case 'h':
			o.sync.StepBackward()
		case 'l':
			o.sync.StepForward()
		default:
			o.handleJump(event.Key)
		}
	}
	return false
}

func (o *Orchestrator) handleJump(key rune) {
	o.jumpMu.Lock()
	targets := o.jumpTargets
	o.jumpMu.Unlock()

	target, ok := interaction.JumpTarget(targets, key)
	if !ok {
		return
	}
	o.sync.SeekTo(target.PartID, target.SeekTime)
	o.stateManager.SetStatus(fmt.Sprintf("jump to %s", target.Surah))
}

// render draws one frame from the current state.
func (o *Orchestrator) render() {
	snap := o.stateManager.Snapshot()
	snap.Mode = o.sync.Mode()
	if marker, ok := o.sync.Displayed(); ok {
		snap.Marker = marker
		snap.HasMarker = true
		snap.Text = o.sync.Text(marker)
	}
	o.display.Render(snap)
}
