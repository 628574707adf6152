package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// KeyType represents the data type of a config key.
type KeyType string

const (
	KeyTypeString KeyType = "string"
	KeyTypeInt    KeyType = "int"
	KeyTypeBool   KeyType = "bool"
)

// KeyEntry describes a known, settable config key.
type KeyEntry struct {
	// Type is the value's data type (string, int, bool).
	Type KeyType
	// Desc is a human-readable description shown in `tally config`.
	Desc string
	// DefaultStr is the string representation of the default/zero value.
	DefaultStr string

	get   func(*Config) string
	set   func(cfg *Config, value string) error
	unset func(cfg *Config)
}

// Get returns the current value of the key as a string.
func (e *KeyEntry) Get(cfg *Config) string { return e.get(cfg) }

// Set validates and sets the value, returning a descriptive error on type mismatch.
func (e *KeyEntry) Set(cfg *Config, value string) error { return e.set(cfg, value) }

// Unset resets the key to its schema default.
func (e *KeyEntry) Unset(cfg *Config) { e.unset(cfg) }

// SchemaKeys is the authoritative registry of all settable config keys.
// Keys use dot-notation matching the TOML section structure.
var SchemaKeys = map[string]*KeyEntry{
	"user.name": {
		Type:       KeyTypeString,
		Desc:       "Display name",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.User.Name },
		set:        func(cfg *Config, v string) error { cfg.User.Name = v; return nil },
		unset:      func(cfg *Config) { cfg.User.Name = "" },
	},
	"store.driver": {
		Type:       KeyTypeString,
		Desc:       "Ledger backend (sqlite, postgres)",
		DefaultStr: DriverSQLite,
		get:        func(cfg *Config) string { return cfg.Store.Driver },
		set: func(cfg *Config, v string) error {
			v = strings.ToLower(strings.TrimSpace(v))
			if v != DriverSQLite && v != DriverPostgres {
				return fmt.Errorf("invalid value %q for store.driver (use sqlite or postgres)", v)
			}
			cfg.Store.Driver = v
			return nil
		},
		unset: func(cfg *Config) { cfg.Store.Driver = DriverSQLite },
	},
	"store.dsn": {
		Type:       KeyTypeString,
		Desc:       "Postgres connection string or sqlite file path",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.Store.DSN },
		set:        func(cfg *Config, v string) error { cfg.Store.DSN = v; return nil },
		unset:      func(cfg *Config) { cfg.Store.DSN = "" },
	},
	"log.debug": {
		Type:       KeyTypeBool,
		Desc:       "Verbose logging to stderr and the log file",
		DefaultStr: "false",
		get:        func(cfg *Config) string { return strconv.FormatBool(cfg.Log.Debug) },
		set: func(cfg *Config, v string) error {
			b, err := ParseBoolValue(v)
			if err != nil {
				return fmt.Errorf("invalid value %q for log.debug: %w", v, err)
			}
			cfg.Log.Debug = b
			return nil
		},
		unset: func(cfg *Config) { cfg.Log.Debug = false },
	},
	"stats.weeks": {
		Type:       KeyTypeInt,
		Desc:       "Default number of weeks for `tally weekly` (1-52)",
		DefaultStr: strconv.Itoa(DefaultWeeks),
		get:        func(cfg *Config) string { return strconv.Itoa(cfg.Stats.Weeks) },
		set: func(cfg *Config, v string) error {
			n, err := parseBounded(v, 1, 52)
			if err != nil {
				return fmt.Errorf("invalid value %q for stats.weeks: %w", v, err)
			}
			cfg.Stats.Weeks = n
			return nil
		},
		unset: func(cfg *Config) { cfg.Stats.Weeks = DefaultWeeks },
	},
	"stats.months": {
		Type:       KeyTypeInt,
		Desc:       "Default number of months for `tally monthly` (1-24)",
		DefaultStr: strconv.Itoa(DefaultMonths),
		get:        func(cfg *Config) string { return strconv.Itoa(cfg.Stats.Months) },
		set: func(cfg *Config, v string) error {
			n, err := parseBounded(v, 1, 24)
			if err != nil {
				return fmt.Errorf("invalid value %q for stats.months: %w", v, err)
			}
			cfg.Stats.Months = n
			return nil
		},
		unset: func(cfg *Config) { cfg.Stats.Months = DefaultMonths },
	},
	"ui.color": {
		Type:       KeyTypeBool,
		Desc:       "Styled terminal output",
		DefaultStr: "true",
		get:        func(cfg *Config) string { return strconv.FormatBool(cfg.UI.ColorEnabled()) },
		set: func(cfg *Config, v string) error {
			b, err := ParseBoolValue(v)
			if err != nil {
				return fmt.Errorf("invalid value %q for ui.color: %w", v, err)
			}
			cfg.UI.Color = BoolPtr(b)
			return nil
		},
		unset: func(cfg *Config) { cfg.UI.Color = BoolPtr(true) },
	},
}

// ValidKeyNames returns the sorted list of all known config key names.
func ValidKeyNames() []string {
	names := make([]string, 0, len(SchemaKeys))
	for k := range SchemaKeys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LookupKey returns the KeyEntry for a known config key.
func LookupKey(key string) (*KeyEntry, bool) {
	entry, ok := SchemaKeys[key]
	return entry, ok
}

// ParseBoolValue accepts common boolean string representations.
// Valid truthy values: true, 1, yes, on.
// Valid falsy values: false, 0, no, off.
func ParseBoolValue(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q (use one of: true/false, 1/0, yes/no, on/off)", s)
	}
}

func parseBounded(s string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("must be between %d and %d", lo, hi)
	}
	return n, nil
}
