package watch

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/jhlabs/unfold/docsite/internal/config"
	"github.com/jhlabs/unfold/docsite/internal/content"
	"github.com/jhlabs/unfold/docsite/internal/site"
)

// Source classifies a file system event.
type Source string

const (
	SourceConfig  Source = "config"
	SourceContent Source = "content"
	SourceCSS     Source = "css"
	SourceNone    Source = ""
)

// sources is the set of paths watched for one loaded config.
type sources struct {
	configPath  string
	envFiles    map[string]bool
	contentRoot string
	stylesheets map[string]bool
}

func newSources(cfg *config.Config) *sources {
	dir := cfg.ProjectRoot()
	s := &sources{
		configPath:  filepath.Clean(cfg.Path()),
		envFiles:    map[string]bool{},
		contentRoot: filepath.Clean(cfg.ContentRoot()),
		stylesheets: map[string]bool{},
	}
	for _, name := range []string{".env", ".env.local"} {
		s.envFiles[filepath.Join(dir, name)] = true
	}
	for _, css := range cfg.Site.CustomCSS {
		if site.IsStylesheet(css) {
			s.stylesheets[filepath.Join(dir, filepath.FromSlash(css))] = true
		}
	}
	return s
}

// dirs returns every directory to register with the watcher: the config
// directory, each stylesheet directory and the content tree recursively.
func (s *sources) dirs() []string {
	seen := map[string]bool{}
	var out []string
	add := func(d string) {
		d = filepath.Clean(d)
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	add(filepath.Dir(s.configPath))
	for css := range s.stylesheets {
		add(filepath.Dir(css))
	}
	_ = filepath.WalkDir(s.contentRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != s.contentRoot && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			add(p)
		}
		return nil
	})
	return out
}

// classify maps an event path to the input it belongs to.
func (s *sources) classify(name string) Source {
	name = filepath.Clean(name)
	switch {
	case name == s.configPath || s.envFiles[name]:
		return SourceConfig
	case s.stylesheets[name]:
		return SourceCSS
	case s.inContent(name):
		base := filepath.Base(name)
		if strings.HasPrefix(base, ".") {
			return SourceNone
		}
		// Directories have no extension; they matter for autogenerate.
		if content.IsContentFile(base) || filepath.Ext(base) == "" {
			return SourceContent
		}
	}
	return SourceNone
}

func (s *sources) inContent(name string) bool {
	rel, err := filepath.Rel(s.contentRoot, name)
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}
