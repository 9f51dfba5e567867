package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andalus/go-taraweeh-monitor/internal/analyzer"
	"github.com/andalus/go-taraweeh-monitor/internal/util"
)

var (
	// Logging related
	debug bool

	// Data paths
	dataDir   string
	configDir string

	// Output related
	outputFormat string

	// Filtering
	days []int

	// Cache
	reset bool

	rootCmd = &cobra.Command{
		Use:   "taraweeh-monitor [flags]",
		Short: "Taraweeh recitation timeline analysis tool",
		Long: `taraweeh-monitor consumes the nightly recitation marker JSON produced by
the indexing pipeline and derives cross-night navigation and progress views.

The root command aggregates all days: where each surah was first recited,
and how juz/surah coverage grows night over night.

Examples:
  taraweeh-monitor                              # Analyze with default settings
  taraweeh-monitor --dir /path/to/markers       # Analyze specified directory
  taraweeh-monitor --output json                # Output in JSON format
  taraweeh-monitor --days 1,2,3                 # Restrict to specific nights
  taraweeh-monitor follow --day 12              # Live "now reciting" monitor
  taraweeh-monitor lookup --day 3 --surah 2 --from 142    # Find an ayah range`,
		RunE: runAnalyze,
	}
)

const (
	defaultLogFile  = "~/.taraweeh-monitor/logs/app.log"
	defaultCacheDir = "~/.taraweeh-monitor/cache"
	defaultDataDir  = "./data"
)

func init() {
	// Input data configuration
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", defaultDataDir,
		"Marker data directory path")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".",
		"Directory holding the taraweeh.json catalog")

	// Filtering
	rootCmd.Flags().IntSliceVar(&days, "days", nil,
		"Restrict analysis to these day numbers (default: all found)")

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.Flags().BoolVarP(&reset, "reset", "r", false,
		"Clear marker cache before analysis")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	initLogging()

	cacheDir := expandPath(defaultCacheDir)
	if err := ensureDir(cacheDir); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if reset {
		if err := clearCache(cacheDir); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("Marker cache cleared")
	}

	config := &analyzer.Config{
		DataDir:      expandPath(dataDir),
		CacheDir:     cacheDir,
		OutputFormat: outputFormat,
		Days:         days,
		Concurrency:  runtime.NumCPU(),
	}

	a := analyzer.New(config)
	return a.Run()
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func initLogging() {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	logFile := expandPath(defaultLogFile)
	ensureDir(filepath.Dir(logFile))
	util.InitLogger(logLevel, logFile, debug)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func clearCache(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			path := filepath.Join(cacheDir, entry.Name())
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}
