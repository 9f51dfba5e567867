package follow

import (
	"fmt"
	"time"

	"github.com/andalus/go-taraweeh-monitor/internal/core/constants"
	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
)

// FollowConfig contains configuration for the follow command
type FollowConfig struct {
	// Data directories
	DataDir  string
	CacheDir string

	// Target selection
	Day    int
	PartID int // 0 means the day's first part

	// Player connection
	SocketPath string

	// Ayah text service base URL. Empty disables text fetching.
	TextService string

	// Refresh settings
	PollInterval  time.Duration
	UIRefreshRate float64

	// Performance settings
	Concurrency int

	// Catalog entry for the day, when one is configured.
	Catalog *model.Day
}

// Validate checks if the configuration is valid
func (c *FollowConfig) Validate() error {
	if c.Day < 1 {
		return fmt.Errorf("day must be at least 1, got %d", c.Day)
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.SocketPath == "" {
		c.SocketPath = "/tmp/mpv-taraweeh.sock"
	}
	if c.PollInterval == 0 {
		c.PollInterval = constants.DefaultPollInterval
	}
	if c.UIRefreshRate == 0 {
		c.UIRefreshRate = 2
	}
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
	return nil
}
