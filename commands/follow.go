package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/andalus/go-taraweeh-monitor/internal/application/follow"
	"github.com/andalus/go-taraweeh-monitor/internal/config"
	"github.com/andalus/go-taraweeh-monitor/internal/util"
)

var (
	followDay         int
	followPart        int
	followSocket      string
	followTextService string
	followRefreshRate float64
)

var followCmd = &cobra.Command{
	Use:   "follow",
	Short: "Live \"now reciting\" monitor for one night",
	Long: `Polls the local player, resolves the marker under the playhead, and renders
a live "now reciting" view: surah, ayah, juz, reciter and ayah text.

Keys: space pauses/resumes the display, arrows (or h/l) step between ayat
while paused, 1-9 jump to the night's surah starts, q quits.

The player is a local mpv started with --input-ipc-server pointing at the
configured socket.`,
	RunE: runFollow,
}

func init() {
	rootCmd.AddCommand(followCmd)

	followCmd.Flags().IntVar(&followDay, "day", 0,
		"Night number to follow (required)")
	followCmd.Flags().IntVar(&followPart, "part", 0,
		"Part id to start in (default: the day's first part)")
	followCmd.Flags().StringVar(&followSocket, "socket", "",
		"mpv IPC socket path (default from catalog config)")
	followCmd.Flags().StringVar(&followTextService, "text-service", "",
		"Ayah text service base URL (default from catalog config)")
	followCmd.Flags().Float64Var(&followRefreshRate, "refresh-per-second", 2,
		"Display refresh rate (0.1-20 Hz)")

	followCmd.MarkFlagRequired("day")
}

func runFollow(cmd *cobra.Command, args []string) error {
	initLogging()

	if followRefreshRate < 0.1 || followRefreshRate > 20 {
		return fmt.Errorf("refresh-per-second must be between 0.1 and 20")
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}

	// Flags override catalog config values
	socket := cfg.PlayerSocket
	if followSocket != "" {
		socket = followSocket
	}
	textService := cfg.TextService
	if followTextService != "" {
		textService = followTextService
	}
	markerDir := cfg.DataDir
	if cmd.Flags().Changed("dir") || markerDir == "" {
		markerDir = dataDir
	}

	followConfig := &follow.FollowConfig{
		DataDir:       expandPath(markerDir),
		CacheDir:      expandPath(defaultCacheDir),
		Day:           followDay,
		PartID:        followPart,
		SocketPath:    socket,
		TextService:   textService,
		PollInterval:  cfg.PollInterval,
		UIRefreshRate: followRefreshRate,
		Concurrency:   runtime.NumCPU(),
	}
	if day, found := cfg.Day(followDay); found {
		followConfig.Catalog = &day
	}

	orchestrator, err := follow.NewOrchestrator(followConfig)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		cancel()
	}()

	util.LogInfo(fmt.Sprintf("Following day %d via %s", followDay, socket))
	return orchestrator.Run(ctx)
}
