package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/andalus/go-taraweeh-monitor/internal/core/model"
)

// ConfigName is the base name of the catalog file (taraweeh.json).
const ConfigName = "taraweeh"

// Config holds the runtime configuration plus the night catalog. The catalog
// maps day numbers to their video parts and marker data files; days without
// an entry fall back to the single-file convention (day-N.json).
type Config struct {
	DataDir      string        `json:"dataDir" mapstructure:"dataDir"`
	TextService  string        `json:"textService" mapstructure:"textService"`
	PlayerSocket string        `json:"playerSocket" mapstructure:"playerSocket"`
	PollInterval time.Duration `json:"pollInterval" mapstructure:"pollInterval"`
	LogLevel     string        `json:"logLevel" mapstructure:"logLevel"`
	Days         []model.Day   `json:"days" mapstructure:"days"`
}

// Load reads the catalog file from configDir, applies defaults, and overlays
// TARAWEEH_* environment variables. A missing file is not an error: every
// setting has a usable default and the catalog is optional.
func Load(configDir string) (*Config, error) {
	v := viper.New()
	v.SetDefault("dataDir", "./data")
	v.SetDefault("textService", "")
	v.SetDefault("playerSocket", "/tmp/mpv-taraweeh.sock")
	v.SetDefault("pollInterval", "1s")
	v.SetDefault("logLevel", "info")

	v.SetConfigName(ConfigName)
	v.SetConfigType("json")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("TARAWEEH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	sort.Slice(cfg.Days, func(i, j int) bool {
		return cfg.Days[i].Number < cfg.Days[j].Number
	})
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("pollInterval must be positive, got %s", c.PollInterval)
	}
	seen := make(map[int]bool, len(c.Days))
	for _, d := range c.Days {
		if d.Number < 1 {
			return fmt.Errorf("day numbers start at 1, got %d", d.Number)
		}
		if seen[d.Number] {
			return fmt.Errorf("duplicate catalog entry for day %d", d.Number)
		}
		seen[d.Number] = true
	}
	return nil
}

// Day returns the catalog entry for a day number.
func (c *Config) Day(number int) (model.Day, bool) {
	for _, d := range c.Days {
		if d.Number == number {
			return d, true
		}
	}
	return model.Day{}, false
}
