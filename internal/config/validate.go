package config

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/dictionary/pkg/dictionary"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Dictionaries))

	for i := range c.Dictionaries {
		d := &c.Dictionaries[i]
		d.Kind = strings.ToLower(strings.TrimSpace(d.Kind))

		if d.Name == "" {
			return fmt.Errorf("dictionaries[%d]: name is required", i)
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("dictionaries[%d]: duplicate name %q", i, d.Name)
		}
		seen[d.Name] = struct{}{}

		if err := d.validate(); err != nil {
			return fmt.Errorf("dictionary %q: %w", d.Name, err)
		}
	}

	if c.HasDatabaseDictionaries() && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required when database dictionaries are configured")
	}

	return nil
}

func (d *DictionaryConfig) validate() error {
	switch d.Kind {
	case KindStatic:
		if d.Table != "" {
			return fmt.Errorf("table is only valid for %s dictionaries", KindDatabase)
		}
		for i, e := range d.Entries {
			if e.Key == "" {
				return fmt.Errorf("entries[%d]: key is required", i)
			}
		}
	case KindDatabase:
		if d.Table == "" {
			return fmt.Errorf("table is required")
		}
		if len(d.Entries) > 0 || len(d.Keys) > 0 {
			return fmt.Errorf("entries and keys are only valid for %s dictionaries", KindStatic)
		}
		if _, err := dictionary.ParseKeyKind(d.KeyType); err != nil {
			return err
		}
		if d.PerPage < 0 {
			return fmt.Errorf("per_page must be >= 0 (got %d)", d.PerPage)
		}
		if d.CacheTTL < 0 {
			return fmt.Errorf("cache_ttl must be >= 0 (got %s)", d.CacheTTL)
		}
	default:
		return fmt.Errorf("unknown kind %q (want %s or %s)", d.Kind, KindStatic, KindDatabase)
	}
	return nil
}
