package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhlabs/unfold/docsite/internal/render"
)

// Normalize trims whitespace, case-folds package names and parses the
// enumerated and duration settings. It returns every problem found.
func Normalize(cfg *Config) []string {
	var problems []string

	s := &cfg.Site
	s.Title = strings.TrimSpace(s.Title)
	s.Description = strings.TrimSpace(s.Description)
	for i := range s.Social {
		s.Social[i].Icon = strings.ToLower(strings.TrimSpace(s.Social[i].Icon))
		s.Social[i].Label = strings.TrimSpace(s.Social[i].Label)
		s.Social[i].Href = strings.TrimSpace(s.Social[i].Href)
	}
	for gi := range s.Sidebar {
		g := &s.Sidebar[gi]
		g.Label = strings.TrimSpace(g.Label)
		for ii := range g.Items {
			g.Items[ii].Label = strings.TrimSpace(g.Items[ii].Label)
			g.Items[ii].Slug = strings.TrimSpace(g.Items[ii].Slug)
		}
		if g.Autogenerate != nil {
			g.Autogenerate.Directory = strings.TrimSpace(g.Autogenerate.Directory)
		}
	}
	for i := range s.CustomCSS {
		s.CustomCSS[i] = strings.TrimSpace(s.CustomCSS[i])
	}
	s.Integration = strings.ToLower(strings.TrimSpace(s.Integration))
	s.Adapter.Name = strings.ToLower(strings.TrimSpace(s.Adapter.Name))
	for i := range s.Plugins {
		s.Plugins[i] = strings.ToLower(strings.TrimSpace(s.Plugins[i]))
	}

	formats := make([]render.Format, 0, len(cfg.Output.Formats))
	seen := map[render.Format]bool{}
	for _, raw := range cfg.Output.Formats {
		f, err := render.ParseFormat(string(raw))
		if err != nil {
			problems = append(problems, "output.formats: "+err.Error())
			continue
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	cfg.Output.Formats = formats

	for _, d := range []struct{ name, value string }{
		{"watch.debounce", cfg.Watch.Debounce},
		{"watch.lint_interval", cfg.Watch.LintInterval},
	} {
		if d.value == "" {
			continue
		}
		if problem := checkDuration(d.name, d.value); problem != "" {
			problems = append(problems, problem)
		}
	}

	cfg.Events.URL = strings.TrimSpace(cfg.Events.URL)
	cfg.Events.Subject = strings.TrimSpace(cfg.Events.Subject)
	cfg.Watch.MetricsAddr = strings.TrimSpace(cfg.Watch.MetricsAddr)

	return problems
}

func checkDuration(name, v string) string {
	d, err := time.ParseDuration(v)
	switch {
	case err != nil:
		return fmt.Sprintf("%s: invalid duration %q", name, v)
	case d <= 0:
		return name + ": must be positive"
	}
	return ""
}
