package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Defaults for rollup commands, matching the bounds enforced by the stats engine.
const (
	DefaultWeeks  = 8
	DefaultMonths = 6
)

// Config holds the top-level tally configuration.
type Config struct {
	User  UserConfig  `toml:"user"`
	Store StoreConfig `toml:"store"`
	Log   LogConfig   `toml:"log"`
	Stats StatsConfig `toml:"stats"`
	UI    UIConfig    `toml:"ui"`
}

type UserConfig struct {
	Name string `toml:"name"`
	// ID is the ledger owner. Generated once by `tally init`.
	ID string `toml:"id"`
}

// StoreConfig selects the ledger backend.
type StoreConfig struct {
	Driver string `toml:"driver"` // sqlite or postgres
	// DSN is the postgres connection string, or an override for the sqlite
	// file path. Empty means the default sqlite file in the data dir.
	DSN string `toml:"dsn"`
}

type LogConfig struct {
	Debug bool `toml:"debug"`
}

type StatsConfig struct {
	Weeks  int `toml:"weeks"`
	Months int `toml:"months"`
}

// UIConfig controls terminal rendering.
type UIConfig struct {
	// Color controls styled output. Defaults to true when not set.
	Color *bool `toml:"color"`
}

// ColorEnabled returns whether styled output is enabled.
// Treats nil (missing from config) as true.
func (u UIConfig) ColorEnabled() bool {
	if u.Color == nil {
		return true
	}
	return *u.Color
}

// Paths returns standard XDG-compliant paths.
type Paths struct {
	ConfigDir  string
	DataDir    string
	StateDir   string
	LogDir     string
	ConfigFile string
	DBFile     string
}

// GetPaths returns the resolved paths, respecting XDG env vars.
func GetPaths() Paths {
	home, _ := os.UserHomeDir()

	configDir := envOr("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	dataDir := envOr("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	stateDir := envOr("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))

	tallyConfig := filepath.Join(configDir, "tally")
	tallyData := filepath.Join(dataDir, "tally")
	tallyState := filepath.Join(stateDir, "tally")

	return Paths{
		ConfigDir:  tallyConfig,
		DataDir:    tallyData,
		StateDir:   tallyState,
		LogDir:     filepath.Join(tallyState, "logs"),
		ConfigFile: filepath.Join(tallyConfig, "config.toml"),
		DBFile:     filepath.Join(tallyData, "tally.db"),
	}
}

// EnsureDirs creates all required directories.
func (p Paths) EnsureDirs() error {
	dirs := []string{p.ConfigDir, p.DataDir, p.StateDir}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Load reads config from disk, returning defaults if not found.
// Missing keys in an existing file fall back to their defaults.
func Load() (*Config, error) {
	paths := GetPaths()
	cfg := defaultConfig()

	data, err := os.ReadFile(paths.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to disk.
func Save(cfg *Config) error {
	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	f, err := os.Create(paths.ConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Initialized returns true if tally has been set up.
func Initialized() bool {
	paths := GetPaths()
	_, err := os.Stat(paths.ConfigFile)
	return err == nil
}

// BoolPtr returns a pointer to a bool value.
func BoolPtr(v bool) *bool {
	return &v
}

func defaultConfig() *Config {
	return &Config{
		User: UserConfig{
			Name: envOr("USER", ""),
		},
		Store: StoreConfig{
			Driver: DriverSQLite,
		},
		Stats: StatsConfig{
			Weeks:  DefaultWeeks,
			Months: DefaultMonths,
		},
		UI: UIConfig{
			Color: BoolPtr(true),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
