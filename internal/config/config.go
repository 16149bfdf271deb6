package config

import (
	"slices"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Database     DatabaseConfig     `yaml:"database"`
	Log          LogConfig          `yaml:"log"`
	Dictionaries []DictionaryConfig `yaml:"dictionaries"`
}

// DatabaseConfig holds PostgreSQL connection settings.
// DSN is only required when a database dictionary is configured.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Dictionary kinds.
const (
	KindStatic   = "static"
	KindDatabase = "database"
)

// DictionaryConfig describes one named dictionary.
//
// Static dictionaries list Entries (or bare Keys, labelled by title case).
// Database dictionaries select Columns from Table, optionally filtered by
// the raw SQL expression Where and ordered by OrderBy. A zero PerPage keeps
// the library default; Unpaginated turns search pagination off.
type DictionaryConfig struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`

	// static
	Entries []EntryConfig `yaml:"entries"`
	Keys    []string      `yaml:"keys"`

	// database
	Table        string        `yaml:"table"`
	Columns      []string      `yaml:"columns"`
	Where        string        `yaml:"where"`
	OrderBy      string        `yaml:"order_by"`
	KeyField     string        `yaml:"key_field"`
	LabelField   string        `yaml:"label_field"`
	KeyType      string        `yaml:"key_type"`
	SearchFields []string      `yaml:"search_fields"`
	PerPage      int           `yaml:"per_page"`
	Unpaginated  bool          `yaml:"unpaginated"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
}

// EntryConfig is one static dictionary entry.
type EntryConfig struct {
	Key   string         `yaml:"key"`
	Label string         `yaml:"label"`
	Meta  map[string]any `yaml:"meta"`
}

// HasDatabaseDictionaries reports whether any dictionary needs a database.
func (c *Config) HasDatabaseDictionaries() bool {
	return slices.ContainsFunc(c.Dictionaries, func(d DictionaryConfig) bool {
		return d.Kind == KindDatabase
	})
}

// Dictionary returns the configuration of the named dictionary.
func (c *Config) Dictionary(name string) (DictionaryConfig, bool) {
	i := slices.IndexFunc(c.Dictionaries, func(d DictionaryConfig) bool {
		return d.Name == name
	})
	if i < 0 {
		return DictionaryConfig{}, false
	}
	return c.Dictionaries[i], true
}

// DictionaryNames returns the configured names in file order.
func (c *Config) DictionaryNames() []string {
	names := make([]string, len(c.Dictionaries))
	for i, d := range c.Dictionaries {
		names[i] = d.Name
	}
	return names
}
