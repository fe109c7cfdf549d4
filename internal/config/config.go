package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Game    GameConfig    `toml:"game"`
	Network NetworkConfig `toml:"network"`
	HTTP    HTTPConfig    `toml:"http"`
	Data    DataConfig    `toml:"data"`
	Logging LoggingConfig `toml:"logging"`
}

type ServerConfig struct {
	Name        string `toml:"name"`
	BindAddress string `toml:"bind_address" env:"WARLOCK_BIND_ADDRESS"`
}

type GameConfig struct {
	MinPlayers     int           `toml:"min_players" env:"WARLOCK_MIN_PLAYERS"`
	MaxPlayers     int           `toml:"max_players" env:"WARLOCK_MAX_PLAYERS"`
	MaxRooms       int           `toml:"max_rooms" env:"WARLOCK_MAX_ROOMS"`
	CreateInterval time.Duration `toml:"create_interval" env:"WARLOCK_CREATE_INTERVAL"` // 0 = unthrottled
	IdleTimeout    time.Duration `toml:"idle_timeout" env:"WARLOCK_IDLE_TIMEOUT"`
	TurnTimeout    time.Duration `toml:"turn_timeout" env:"WARLOCK_TURN_TIMEOUT"`
	ReconnectGrace time.Duration `toml:"reconnect_grace" env:"WARLOCK_RECONNECT_GRACE"`
}

type NetworkConfig struct {
	InQueueSize     int           `toml:"in_queue_size"`
	OutQueueSize    int           `toml:"out_queue_size"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	MaxFramesPerSec int           `toml:"max_frames_per_sec"` // 0 = unlimited
}

type HTTPConfig struct {
	BindAddress    string   `toml:"bind_address" env:"WARLOCK_HTTP_ADDRESS"`
	AllowedOrigins []string `toml:"allowed_origins" env:"WARLOCK_ALLOWED_ORIGINS" envSeparator:","`
}

type DataConfig struct {
	Dir        string `toml:"dir" env:"WARLOCK_DATA_DIR"`
	ScriptsDir string `toml:"scripts_dir" env:"WARLOCK_SCRIPTS_DIR"`
}

type LoggingConfig struct {
	Level  string `toml:"level" env:"WARLOCK_LOG_LEVEL"`
	Format string `toml:"format" env:"WARLOCK_LOG_FORMAT"` // "json" or "console"
}

// Load reads the TOML config file, then overlays environment variables on
// top so deployments can tune individual options without editing the file.
func Load(path string) (*Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// run on defaults + environment
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Game.MinPlayers < 3 {
		return fmt.Errorf("game.min_players must be at least 3, got %d", c.Game.MinPlayers)
	}
	if c.Game.MaxPlayers < c.Game.MinPlayers {
		return fmt.Errorf("game.max_players %d below min_players %d", c.Game.MaxPlayers, c.Game.MinPlayers)
	}
	if c.Game.MaxRooms < 1 {
		return fmt.Errorf("game.max_rooms must be positive, got %d", c.Game.MaxRooms)
	}
	// Room codes are drawn from a 9000-value space; keep the registry's
	// collision retry cheap.
	if c.Game.MaxRooms > 5000 {
		return fmt.Errorf("game.max_rooms must be at most 5000, got %d", c.Game.MaxRooms)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name:        "warlockd",
			BindAddress: "0.0.0.0:7777",
		},
		Game: GameConfig{
			MinPlayers:     3,
			MaxPlayers:     20,
			MaxRooms:       200,
			CreateInterval: time.Second,
			IdleTimeout:    30 * time.Minute,
			TurnTimeout:    60 * time.Second,
			ReconnectGrace: 2 * time.Minute,
		},
		Network: NetworkConfig{
			InQueueSize:     64,
			OutQueueSize:    256,
			WriteTimeout:    10 * time.Second,
			MaxFramesPerSec: 30,
		},
		HTTP: HTTPConfig{
			BindAddress:    "0.0.0.0:8080",
			AllowedOrigins: []string{"*"},
		},
		Data: DataConfig{
			Dir:        "data/yaml",
			ScriptsDir: "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
