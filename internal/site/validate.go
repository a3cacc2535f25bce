package site

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/idna"

	"github.com/jhlabs/unfold/docsite/internal/foundation/errors"
)

// SlugPattern is the accepted shape of a sidebar slug: one section and one
// document, lowercase ASCII, digits and hyphens.
var SlugPattern = regexp.MustCompile(`^[a-z0-9-]+/[a-z0-9-]+$`)

// StylesheetExtensions lists the accepted customCss extensions.
var StylesheetExtensions = []string{".css", ".scss", ".sass", ".less", ".styl", ".pcss"}

// Problem is a single structural violation.
type Problem struct {
	Field   string
	Message string
}

func (p Problem) String() string {
	return p.Field + ": " + p.Message
}

// Check returns every structural violation in s, in field order.
func Check(s Site) []Problem {
	v := &validator{}
	v.metadata(s.Metadata)
	v.sidebar(s.Sidebar)
	v.stylesheets(s.CustomCSS)
	v.packages(s)
	return v.problems
}

// Validate returns a classified validation error carrying every problem, or nil.
func Validate(s Site) error {
	problems := Check(s)
	if len(problems) == 0 {
		return nil
	}
	lines := make([]string, 0, len(problems))
	for _, p := range problems {
		lines = append(lines, p.String())
	}
	return errors.ValidationError("site configuration is invalid").
		WithContext("problems", lines).
		Build()
}

type validator struct {
	problems []Problem
}

func (v *validator) add(field, format string, args ...any) {
	v.problems = append(v.problems, Problem{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) metadata(m Metadata) {
	if strings.TrimSpace(m.Title) == "" {
		v.add("title", "is required")
	}
	for i, link := range m.Social {
		field := fmt.Sprintf("social[%d]", i)
		if link.Icon == "" {
			v.add(field, "icon is required")
		}
		if link.Label == "" {
			v.add(field, "label is required")
		}
		if err := checkHref(link.Href); err != nil {
			v.add(field, "href %q %v", link.Href, err)
		}
	}
}

func checkHref(href string) error {
	u, err := url.Parse(href)
	if err != nil {
		return fmt.Errorf("is not a URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must be an absolute http(s) URL")
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("has no host")
	}
	if _, err := idna.Lookup.ToASCII(host); err != nil {
		return fmt.Errorf("has an invalid host: %w", err)
	}
	return nil
}

func (v *validator) sidebar(groups []NavGroup) {
	for i, g := range groups {
		field := fmt.Sprintf("sidebar[%d]", i)
		if strings.TrimSpace(g.Label) == "" {
			v.add(field, "label is required")
		}
		switch g.Kind() {
		case GroupInvalid:
			if g.Autogenerate != nil {
				v.add(field, "group %q sets both items and autogenerate", g.Label)
			} else {
				v.add(field, "group %q needs items or autogenerate", g.Label)
			}
		case GroupAutogenerate:
			if err := checkDirectory(g.Autogenerate.Directory); err != nil {
				v.add(field+".autogenerate.directory", "%v", err)
			}
		}
		for j, it := range g.Items {
			itemField := fmt.Sprintf("%s.items[%d]", field, j)
			if strings.TrimSpace(it.Label) == "" {
				v.add(itemField, "label is required")
			}
			if !SlugPattern.MatchString(it.Slug) {
				v.add(itemField, "slug %q must match %s", it.Slug, SlugPattern.String())
			}
		}
	}
}

func checkDirectory(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("is required")
	}
	if strings.HasPrefix(dir, "/") || filepath.IsAbs(dir) {
		return fmt.Errorf("%q must be relative to the content root", dir)
	}
	clean := path.Clean(dir)
	for _, seg := range strings.Split(clean, "/") {
		if seg == ".." {
			return fmt.Errorf("%q must not leave the content root", dir)
		}
	}
	if clean == "." {
		return fmt.Errorf("%q must name a directory below the content root", dir)
	}
	return nil
}

func (v *validator) stylesheets(paths []string) {
	for i, p := range paths {
		field := fmt.Sprintf("custom_css[%d]", i)
		switch {
		case strings.TrimSpace(p) == "":
			v.add(field, "path is required")
		case strings.Contains(p, "://"):
			v.add(field, "%q must be a file path, not a URL", p)
		case strings.HasPrefix(p, "/") || filepath.IsAbs(p):
			v.add(field, "%q must be a relative path", p)
		case !IsStylesheet(p):
			v.add(field, "%q must end in one of %s", p, strings.Join(StylesheetExtensions, " "))
		}
	}
}

// IsStylesheet reports whether p carries a stylesheet extension.
func IsStylesheet(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	for _, e := range StylesheetExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (v *validator) packages(s Site) {
	integration := s.Integration
	if integration == "" {
		integration = DefaultIntegration
	}
	if _, ok := Lookup(KindIntegration, integration); !ok {
		v.add("integration", "unknown integration %q (known: %s)", integration, strings.Join(Names(KindIntegration), ", "))
	}

	if s.Adapter.Name == "" {
		v.add("adapter.name", "is required")
	} else if pkg, ok := Lookup(KindAdapter, s.Adapter.Name); !ok {
		v.add("adapter.name", "unknown adapter %q (known: %s)", s.Adapter.Name, strings.Join(Names(KindAdapter), ", "))
	} else if s.Adapter.PlatformProxy.Enabled && !pkg.ProxyAware {
		v.add("adapter.platform_proxy", "adapter %q does not support a platform proxy", s.Adapter.Name)
	}

	seen := make(map[string]bool, len(s.Plugins))
	for i, p := range s.Plugins {
		field := fmt.Sprintf("plugins[%d]", i)
		if _, ok := Lookup(KindPlugin, p); !ok {
			v.add(field, "unknown plugin %q (known: %s)", p, strings.Join(Names(KindPlugin), ", "))
		}
		if seen[p] {
			v.add(field, "plugin %q listed twice", p)
		}
		seen[p] = true
	}
}
