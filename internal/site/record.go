package site

import "slices"

// Record is the framework-initialization argument set. Field order is the
// serialization order.
type Record struct {
	Integrations []Integration `json:"integrations" yaml:"integrations"`
	Adapter      AdapterCall   `json:"adapter" yaml:"adapter"`
	Vite         Vite          `json:"vite" yaml:"vite"`
}

// Integration is one registered framework integration with its options.
type Integration struct {
	Name    string       `json:"name" yaml:"name"`
	Options ThemeOptions `json:"options" yaml:"options"`
}

// ThemeOptions are the options passed to the site theme integration.
type ThemeOptions struct {
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description" yaml:"description"`
	Social      []SocialLink `json:"social" yaml:"social"`
	Sidebar     []NavGroup   `json:"sidebar" yaml:"sidebar"`
	CustomCSS   []string     `json:"customCss" yaml:"customCss"`
}

// AdapterCall is the deployment adapter invocation.
type AdapterCall struct {
	Name    string         `json:"name" yaml:"name"`
	Options AdapterOptions `json:"options" yaml:"options"`
}

// AdapterOptions are passed to the adapter factory. PlatformProxy is only
// emitted for adapters that support it.
type AdapterOptions struct {
	PlatformProxy *PlatformProxy `json:"platformProxy,omitempty" yaml:"platformProxy,omitempty"`
}

// Vite carries the build-tool configuration.
type Vite struct {
	Plugins []PluginCall `json:"plugins" yaml:"plugins"`
}

// PluginCall is one build-tool plugin invocation.
type PluginCall struct {
	Name string `json:"name" yaml:"name"`
}

// Record produces the framework-initialization arguments for s. It is pure:
// the returned value shares no mutable state with s.
func (s Site) Record() Record {
	integration := s.Integration
	if integration == "" {
		integration = DefaultIntegration
	}

	opts := ThemeOptions{
		Title:       s.Title,
		Description: s.Description,
		Social:      nonNil(slices.Clone(s.Social)),
		Sidebar:     cloneSidebar(s.Sidebar),
		CustomCSS:   nonNil(slices.Clone(s.CustomCSS)),
	}

	adapter := AdapterCall{Name: s.Adapter.Name}
	if pkg, ok := Lookup(KindAdapter, s.Adapter.Name); ok && pkg.ProxyAware {
		proxy := s.Adapter.PlatformProxy
		adapter.Options.PlatformProxy = &proxy
	}

	plugins := make([]PluginCall, 0, len(s.Plugins))
	for _, p := range s.Plugins {
		plugins = append(plugins, PluginCall{Name: p})
	}

	return Record{
		Integrations: []Integration{{Name: integration, Options: opts}},
		Adapter:      adapter,
		Vite:         Vite{Plugins: plugins},
	}
}

func cloneSidebar(groups []NavGroup) []NavGroup {
	out := make([]NavGroup, 0, len(groups))
	for _, g := range groups {
		c := NavGroup{Label: g.Label, Items: slices.Clone(g.Items)}
		if g.Autogenerate != nil {
			auto := *g.Autogenerate
			c.Autogenerate = &auto
		}
		out = append(out, c)
	}
	return out
}

// nonNil keeps empty sequences serialized as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
