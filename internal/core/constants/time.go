package constants

import "time"

const (
	// Playback polling
	DefaultPollInterval = time.Second

	// Stall detection: advance below the epsilon for this many consecutive
	// polls counts as a stall
	StallEpsilonSeconds = 0.08
	StallThresholdPolls = 5

	// Buffering watchdog
	BufferingTimeout      = 8 * time.Second
	BufferingNudgeSeconds = 0.4

	// Unrequested pause recovery
	ForcedPauseReplayDelay = 300 * time.Millisecond

	// Timeline stitching: silence inserted between consecutive video parts
	PartGapSeconds = 30.0

	// External text lookups
	TextFetchTimeout = 10 * time.Second
)
