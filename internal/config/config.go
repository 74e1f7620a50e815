// Package config loads server configuration from a YAML file with
// environment variable overrides (prefix BEASTBRAWL_, dots as underscores).
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level server configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
	Replay  ReplayConfig  `mapstructure:"replay"`
}

// ServerConfig configures the websocket listener.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// GameConfig configures match setup defaults.
type GameConfig struct {
	// CardsPath optionally points at a YAML card overlay merged over the
	// built-in catalog at startup.
	CardsPath string `mapstructure:"cards_path"`
	// Seed fixes deck generation and AI jitter; 0 means derive from time.
	Seed int64 `mapstructure:"seed"`
}

// ReplayConfig configures match recording.
type ReplayConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// Load reads the configuration file at path, applying defaults and
// environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("server.address", ":8089")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("game.cards_path", "")
	v.SetDefault("game.seed", 0)
	v.SetDefault("replay.enabled", true)
	v.SetDefault("replay.dir", "replays")

	v.SetEnvPrefix("BEASTBRAWL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
