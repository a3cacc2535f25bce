package config

import (
	"github.com/jhlabs/unfold/docsite/internal/render"
	"github.com/jhlabs/unfold/docsite/internal/site"
)

// Defaults for omitted settings.
const (
	DefaultContentRoot   = "src/content/docs"
	DefaultOutputDir     = "."
	DefaultHistoryPath   = ".docsite/history.db"
	DefaultDebounce      = "500ms"
	DefaultLintInterval  = "10m"
	DefaultEventsURL     = "nats://127.0.0.1:4222"
	DefaultEventsStream  = "DOCSITE"
	DefaultEventsSubject = "docsite.rendered"

	// MemoryHistory keeps the history in memory for one process.
	MemoryHistory = ":memory:"
)

// DefaultApplier applies defaults for one configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

type siteDefaults struct{}

func (siteDefaults) Domain() string { return "site" }

func (siteDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Site.Integration == "" {
		cfg.Site.Integration = site.DefaultIntegration
	}
}

type contentDefaults struct{}

func (contentDefaults) Domain() string { return "content" }

func (contentDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Content.Root == "" {
		cfg.Content.Root = DefaultContentRoot
	}
}

type outputDefaults struct{}

func (outputDefaults) Domain() string { return "output" }

func (outputDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDir
	}
	if len(cfg.Output.Formats) == 0 {
		cfg.Output.Formats = []render.Format{render.FormatModule}
	}
}

type historyDefaults struct{}

func (historyDefaults) Domain() string { return "history" }

func (historyDefaults) ApplyDefaults(cfg *Config) {
	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
}

type eventsDefaults struct{}

func (eventsDefaults) Domain() string { return "events" }

func (eventsDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Events.URL == "" {
		cfg.Events.URL = DefaultEventsURL
	}
	if cfg.Events.Stream == "" {
		cfg.Events.Stream = DefaultEventsStream
	}
	if cfg.Events.Subject == "" {
		cfg.Events.Subject = DefaultEventsSubject
	}
}

type watchDefaults struct{}

func (watchDefaults) Domain() string { return "watch" }

func (watchDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = DefaultDebounce
	}
	if cfg.Watch.LintInterval == "" {
		cfg.Watch.LintInterval = DefaultLintInterval
	}
}

var defaultAppliers = []DefaultApplier{
	siteDefaults{},
	contentDefaults{},
	outputDefaults{},
	historyDefaults{},
	eventsDefaults{},
	watchDefaults{},
}

// ApplyDefaults fills every omitted setting.
func ApplyDefaults(cfg *Config) {
	for _, a := range defaultAppliers {
		a.ApplyDefaults(cfg)
	}
}
