// Package config loads docsite.yaml: the site record plus the settings of
// the tool around it (content location, outputs, history, events, watch).
package config

import (
	"path/filepath"
	"time"

	"github.com/jhlabs/unfold/docsite/internal/render"
	"github.com/jhlabs/unfold/docsite/internal/site"
)

// DefaultFileName is the configuration file looked up when none is given.
const DefaultFileName = "docsite.yaml"

// Config is the complete docsite configuration.
type Config struct {
	Site    site.Site     `yaml:",inline"`
	Content ContentConfig `yaml:"content,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	History HistoryConfig `yaml:"history,omitempty"`
	Events  EventsConfig  `yaml:"events,omitempty"`
	Watch   WatchConfig   `yaml:"watch,omitempty"`

	// path is the file the config was loaded from.
	path string
}

// ContentConfig locates the documentation content tree.
type ContentConfig struct {
	Root string `yaml:"root,omitempty"`
}

// OutputConfig controls where and how the record is rendered.
type OutputConfig struct {
	Directory string          `yaml:"directory,omitempty"`
	Formats   []render.Format `yaml:"formats,omitempty"`
}

// HistoryConfig locates the render history database.
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// EventsConfig controls publishing of render events to NATS JetStream.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	URL     string `yaml:"url,omitempty"`
	Stream  string `yaml:"stream,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// WatchConfig tunes `docsite watch`.
type WatchConfig struct {
	Debounce     string `yaml:"debounce,omitempty"`
	LintInterval string `yaml:"lint_interval,omitempty"`
	// MetricsAddr serves Prometheus metrics when set.
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string { return c.path }

// ProjectRoot is the directory containing the config file. Relative paths
// in the config resolve against it.
func (c *Config) ProjectRoot() string {
	if c.path == "" {
		return "."
	}
	return filepath.Dir(c.path)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectRoot(), filepath.FromSlash(p))
}

// ContentRoot is the absolute-or-project-relative content directory.
func (c *Config) ContentRoot() string { return c.resolve(c.Content.Root) }

// OutputDir is the directory rendered files are written to.
func (c *Config) OutputDir() string { return c.resolve(c.Output.Directory) }

// HistoryPath is the history database file, or ":memory:".
func (c *Config) HistoryPath() string {
	if c.History.Path == MemoryHistory {
		return MemoryHistory
	}
	return c.resolve(c.History.Path)
}

// HistoryEnabled reports whether renders are recorded.
func (c *Config) HistoryEnabled() bool {
	return c.History.Enabled == nil || *c.History.Enabled
}

// DebounceDuration is the parsed watch debounce.
func (c *Config) DebounceDuration() time.Duration {
	return mustDuration(c.Watch.Debounce, DefaultDebounce)
}

// LintIntervalDuration is the parsed periodic lint interval.
func (c *Config) LintIntervalDuration() time.Duration {
	return mustDuration(c.Watch.LintInterval, DefaultLintInterval)
}

func mustDuration(s string, fallback string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	d, _ := time.ParseDuration(fallback)
	return d
}
