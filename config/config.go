package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full process configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
	Game    Game          `mapstructure:"game"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type LogConfig struct {
	Output string `mapstructure:"output"` // stdout, stderr or a file path
	Level  string `mapstructure:"level"`
}

// StorageConfig selects where saves are kept.
type StorageConfig struct {
	Driver      string `mapstructure:"driver"` // leveldb or sqlite
	Path        string `mapstructure:"path"`
	LoadOnStart bool   `mapstructure:"load_on_start"`
	SaveOnExit  bool   `mapstructure:"save_on_exit"`
}

// SpawnWeights are the relative odds of each spawn outcome.
type SpawnWeights struct {
	None    int `mapstructure:"none"`
	Blocker int `mapstructure:"blocker"`
	Save    int `mapstructure:"save"`
	Gain    int `mapstructure:"gain"`
}

// Game holds every tuning constant of the simulation.
type Game struct {
	TickInterval    time.Duration `mapstructure:"tick_interval"`
	BlockedTickRate float64       `mapstructure:"blocked_tick_rate"`
	AutoClick       bool          `mapstructure:"auto_click"`
	Seed            uint64        `mapstructure:"seed"` // 0 picks a random seed

	SpawnRadius   float64      `mapstructure:"spawn_radius"`
	SpawnAttempts int          `mapstructure:"spawn_attempts"`
	SpawnWeights  SpawnWeights `mapstructure:"spawn_weights"`

	TimerBlockerMult            float64 `mapstructure:"timer_blocker_mult"`
	TimerResetBlockerFixed      float64 `mapstructure:"timer_reset_blocker_fixed"`
	TimerGainMult               float64 `mapstructure:"timer_gain_mult"`
	TimerGainMultPerLevel       float64 `mapstructure:"timer_gain_mult_per_level"`
	TimerSaveBase               float64 `mapstructure:"timer_save_base"`
	TimerSaveMultPerLevel       float64 `mapstructure:"timer_save_mult_per_level"`
	TimerSaveAddMultPerCurrency float64 `mapstructure:"timer_save_add_mult_per_currency"`
}

// DefaultGame returns the stock tuning.
func DefaultGame() Game {
	return Game{
		TickInterval:    50 * time.Millisecond,
		BlockedTickRate: 0.05,
		SpawnRadius:     200,
		SpawnAttempts:   10,
		SpawnWeights:    SpawnWeights{None: 30, Blocker: 50, Save: 5, Gain: 20},

		TimerBlockerMult:            0.5,
		TimerResetBlockerFixed:      0.5,
		TimerGainMult:               0.3,
		TimerGainMultPerLevel:       2,
		TimerSaveBase:               5,
		TimerSaveMultPerLevel:       5,
		TimerSaveAddMultPerCurrency: 0.5,
	}
}

// Validate rejects tunings the engine cannot run with.
func (g Game) Validate() error {
	if g.TickInterval <= 0 {
		return errors.New("game.tick_interval must be positive")
	}
	if g.BlockedTickRate < 0 || g.BlockedTickRate > 1 {
		return errors.New("game.blocked_tick_rate must be within [0, 1]")
	}
	if g.SpawnRadius <= 0 {
		return errors.New("game.spawn_radius must be positive")
	}
	if g.SpawnAttempts <= 0 {
		return errors.New("game.spawn_attempts must be positive")
	}
	w := g.SpawnWeights
	if w.None < 0 || w.Blocker < 0 || w.Save < 0 || w.Gain < 0 {
		return errors.New("game.spawn_weights must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultGame()
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.level", "info")
	v.SetDefault("storage.driver", "leveldb")
	v.SetDefault("storage.path", "data/saves")
	v.SetDefault("storage.load_on_start", true)
	v.SetDefault("storage.save_on_exit", true)

	v.SetDefault("game.tick_interval", d.TickInterval)
	v.SetDefault("game.blocked_tick_rate", d.BlockedTickRate)
	v.SetDefault("game.auto_click", d.AutoClick)
	v.SetDefault("game.seed", d.Seed)
	v.SetDefault("game.spawn_radius", d.SpawnRadius)
	v.SetDefault("game.spawn_attempts", d.SpawnAttempts)
	v.SetDefault("game.spawn_weights.none", d.SpawnWeights.None)
	v.SetDefault("game.spawn_weights.blocker", d.SpawnWeights.Blocker)
	v.SetDefault("game.spawn_weights.save", d.SpawnWeights.Save)
	v.SetDefault("game.spawn_weights.gain", d.SpawnWeights.Gain)
	v.SetDefault("game.timer_blocker_mult", d.TimerBlockerMult)
	v.SetDefault("game.timer_reset_blocker_fixed", d.TimerResetBlockerFixed)
	v.SetDefault("game.timer_gain_mult", d.TimerGainMult)
	v.SetDefault("game.timer_gain_mult_per_level", d.TimerGainMultPerLevel)
	v.SetDefault("game.timer_save_base", d.TimerSaveBase)
	v.SetDefault("game.timer_save_mult_per_level", d.TimerSaveMultPerLevel)
	v.SetDefault("game.timer_save_add_mult_per_currency", d.TimerSaveAddMultPerCurrency)
}

// Load reads the YAML file at path, overlays IDLE_* environment variables
// (IDLE_GAME_AUTO_CLICK=true) and falls back to defaults for missing keys.
// An empty path uses defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("IDLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Game.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
