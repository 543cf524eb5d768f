// Package config loads the scheduler configuration from a JSON or YAML file
// with optional environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/techstars-london/mentormagic/core/model"
	"github.com/techstars-london/mentormagic/core/slots"
	"github.com/techstars-london/mentormagic/infra/airtable"
	"github.com/techstars-london/mentormagic/infra/gcal"
)

// CompanyConfig describes one participating company. Companies are static
// configuration, mirroring the founder email lists the program runs with.
type CompanyConfig struct {
	Name        string   `json:"name"`
	Emails      []string `json:"emails"`
	Capacity    int      `json:"capacity"`
	Unavailable []int    `json:"unavailable"`
}

// Model converts the entry to the scheduling model. A zero capacity defaults
// to one simultaneous meeting per slot.
func (c CompanyConfig) Model() model.Company {
	capacity := c.Capacity
	if capacity == 0 {
		capacity = 1
	}
	unavailable := make(map[int]struct{}, len(c.Unavailable))
	for _, idx := range c.Unavailable {
		unavailable[idx] = struct{}{}
	}
	return model.Company{
		ID:           airtable.Slug(c.Name),
		Name:         c.Name,
		Attendees:    append([]string(nil), c.Emails...),
		SlotCapacity: capacity,
		Unavailable:  unavailable,
	}
}

// MetricsConfig selects the observability backends.
type MetricsConfig struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// OutputConfig controls where artifacts are written.
type OutputConfig struct {
	Dir         string `json:"dir"`
	BackupDir   string `json:"backup_dir"`
	LookbookURL string `json:"lookbook_url"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "output"
	}
	if c.BackupDir == "" {
		c.BackupDir = filepath.Join(c.Dir, "backups")
	}
}

// HistoryConfig locates the pairing-history database.
type HistoryConfig struct {
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *HistoryConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "pairing_history.db"
	}
}

// Config is the full scheduler configuration.
type Config struct {
	Airtable  airtable.Config `json:"airtable"`
	Companies []CompanyConfig `json:"companies"`
	Slots     []slots.Block   `json:"slots"`
	History   HistoryConfig   `json:"history"`
	Metrics   MetricsConfig   `json:"metrics"`
	Calendar  gcal.Config     `json:"calendar"`
	Output    OutputConfig    `json:"output"`
}

// Load reads the configuration file, applying MM_-prefixed environment
// overrides (MM_AIRTABLE__TOKEN overrides airtable.token).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("MM_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "mm_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Output.SetDefaults()
	cfg.History.SetDefaults()
	cfg.Calendar.SetDefaults()
	if len(cfg.Slots) == 0 {
		cfg.Slots = slots.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if len(c.Companies) == 0 {
		return fmt.Errorf("config: at least one company is required")
	}
	seen := make(map[string]struct{})
	for _, comp := range c.Companies {
		if comp.Name == "" {
			return fmt.Errorf("config: company name is required")
		}
		id := airtable.Slug(comp.Name)
		if _, dup := seen[id]; dup {
			return fmt.Errorf("config: duplicate company %q", comp.Name)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// CompanyModels converts the configured companies to the scheduling model,
// in configuration order.
func (c *Config) CompanyModels() []model.Company {
	out := make([]model.Company, 0, len(c.Companies))
	for _, comp := range c.Companies {
		out = append(out, comp.Model())
	}
	return out
}
