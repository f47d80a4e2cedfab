package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"survival-quiz/internal/game"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverBolt     = "bolt"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Game struct {
		MaxLives        int    `yaml:"max_lives"`
		BasePoints      int    `yaml:"base_points"`
		TimeBonusRate   int    `yaml:"time_bonus_rate"`
		StreakBonusRate int    `yaml:"streak_bonus_rate"`
		TimerSeconds    int    `yaml:"timer_seconds"`
		SettleDelay     string `yaml:"settle_delay"`
	} `yaml:"game"`
	Store struct {
		Driver  string `yaml:"driver"`
		Timeout string `yaml:"timeout"`
		// NameCacheSize bounds the cache of names already known to be taken.
		NameCacheSize int `yaml:"name_cache_size"`
	} `yaml:"store"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Bolt struct {
		Path string `yaml:"path"`
	} `yaml:"bolt"`
	Supabase struct {
		// ConfigURL points at a /config endpoint serving {url, key}. When empty the
		// credentials below (or SUPABASE_URL/SUPABASE_KEY) are used directly.
		ConfigURL string `yaml:"config_url"`
		URL       string `yaml:"url"`
		Key       string `yaml:"key"`
		Table     string `yaml:"table"`
	} `yaml:"supabase"`
	Bank struct {
		File string `yaml:"file"`
		TTL  string `yaml:"ttl"`
	} `yaml:"bank"`
	Log struct {
		Debug bool   `yaml:"debug"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

// Credentials are the store credentials handed to browsers by the /config endpoint.
type Credentials struct {
	URL string `envconfig:"SUPABASE_URL" json:"url"`
	Key string `envconfig:"SUPABASE_KEY" json:"key"`
}

// Default returns a config that runs with an in-memory store and the built-in bank.
func Default() Config {
	cfg := Config{}
	rules := game.DefaultConfig()
	cfg.Server.Port = "8080"
	cfg.Game.MaxLives = rules.MaxLives
	cfg.Game.BasePoints = rules.BasePoints
	cfg.Game.TimeBonusRate = rules.TimeBonusRate
	cfg.Game.StreakBonusRate = rules.StreakBonusRate
	cfg.Game.TimerSeconds = rules.TimerSeconds
	cfg.Game.SettleDelay = rules.SettleDelay.String()
	cfg.Store.Driver = DriverMemory
	cfg.Store.Timeout = "5s"
	cfg.Store.NameCacheSize = 1024
	cfg.Redis.TTL = "10m"
	cfg.Supabase.Table = "scores"
	cfg.Bank.TTL = "10m"
	return cfg
}

// Load reads YAML config from path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// StoreCredentials overlays SUPABASE_URL and SUPABASE_KEY on the file values.
func (c Config) StoreCredentials() (Credentials, error) {
	creds := Credentials{URL: c.Supabase.URL, Key: c.Supabase.Key}
	var env Credentials
	if err := envconfig.Process("", &env); err != nil {
		return creds, fmt.Errorf("process store credentials: %w", err)
	}
	if env.URL != "" {
		creds.URL = env.URL
	}
	if env.Key != "" {
		creds.Key = env.Key
	}
	return creds, nil
}

// Rules converts the game section into engine rules, falling back per field.
func (c Config) Rules() game.Config {
	rules := game.DefaultConfig()
	if c.Game.MaxLives > 0 {
		rules.MaxLives = c.Game.MaxLives
	}
	if c.Game.BasePoints > 0 {
		rules.BasePoints = c.Game.BasePoints
	}
	if c.Game.TimeBonusRate >= 0 {
		rules.TimeBonusRate = c.Game.TimeBonusRate
	}
	if c.Game.StreakBonusRate >= 0 {
		rules.StreakBonusRate = c.Game.StreakBonusRate
	}
	if c.Game.TimerSeconds > 0 {
		rules.TimerSeconds = c.Game.TimerSeconds
	}
	rules.SettleDelay = TTLDuration(c.Game.SettleDelay, rules.SettleDelay)
	return rules
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
