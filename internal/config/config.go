package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Itqan-community/RATQ/internal/transform"
)

// DefaultPath is the optional config file looked up in the working
// directory.
const DefaultPath = "searchindex.yaml"

// Config controls a generator run. Every field has a default, so running
// without a config file scans the working directory. Manifest overrides are
// off unless Manifest is set.
type Config struct {
	Root       string      `yaml:"root"`
	Output     string      `yaml:"output"`
	Exclude    []string    `yaml:"exclude"`
	Groups     []GroupRule `yaml:"groups"`
	Manifest   string      `yaml:"manifest"`
	SQLitePath string      `yaml:"sqlite_path"`
	LogLevel   string      `yaml:"log_level"`
}

// GroupRule assigns Group to documents whose relative path starts with
// Prefix.
type GroupRule struct {
	Prefix string `yaml:"prefix"`
	Group  string `yaml:"group"`
}

func Default() *Config {
	return &Config{
		Root:   ".",
		Output: "search-index.json",
		Exclude: []string{
			".git",
			"node_modules",
			".github",
		},
		Groups: []GroupRule{
			{Prefix: "Apps/", Group: string(transform.GroupApps)},
			{Prefix: "Technologies/", Group: string(transform.GroupTechnologies)},
		},
		LogLevel: "info",
	}
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOptional behaves like Load but returns the defaults when path does
// not exist.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) Validate() error {
	if c.Root == "" {
		return errors.New("config root is required")
	}
	if c.Output == "" {
		return errors.New("config output is required")
	}
	if filepath.Base(c.Output) != c.Output {
		return fmt.Errorf("config output must be a file name at the root: %q", c.Output)
	}
	for i, rule := range c.Groups {
		if rule.Prefix == "" {
			return fmt.Errorf("config groups[%d] prefix is required", i)
		}
		if !transform.Group(rule.Group).Valid() {
			return fmt.Errorf("config groups[%d] has unknown group %q", i, rule.Group)
		}
	}
	return nil
}

// ManifestPath returns the manifest location, or "" when disabled.
func (c *Config) ManifestPath() string {
	return c.underRoot(c.Manifest)
}

// IndexPath returns the SQLite export location, or "" when disabled.
func (c *Config) IndexPath() string {
	return c.underRoot(c.SQLitePath)
}

func (c *Config) underRoot(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

func (c *Config) Rules() []transform.Rule {
	rules := make([]transform.Rule, 0, len(c.Groups))
	for _, g := range c.Groups {
		rules = append(rules, transform.Rule{Prefix: g.Prefix, Group: transform.Group(g.Group)})
	}
	return rules
}
