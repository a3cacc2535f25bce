package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jhlabs/unfold/docsite/internal/foundation/errors"
	"github.com/jhlabs/unfold/docsite/internal/gitinfo"
	"github.com/jhlabs/unfold/docsite/internal/logfields"
	"github.com/jhlabs/unfold/docsite/internal/site"
)

const initHeader = `# docsite configuration.
# Render the framework config with: docsite render
`

// InitOptions customizes the generated configuration.
type InitOptions struct {
	// Title overrides the default site title.
	Title string
	// SkipGit disables deriving the repository link from the git origin.
	SkipGit bool
}

// socialIcons maps repository hosts to their Starlight social icon.
var socialIcons = map[string]string{
	"github.com":    "github",
	"gitlab.com":    "gitlab",
	"codeberg.org":  "codeberg",
	"bitbucket.org": "bitbucket",
}

// Default returns the configuration written by Init.
func Default() *Config {
	cfg := &Config{Site: site.Default()}
	cfg.Watch.MetricsAddr = "127.0.0.1:9464"
	ApplyDefaults(cfg)
	return cfg
}

// Init writes the default Unfold.js configuration to path. An existing
// file is only replaced when force is set.
func Init(path string, force bool, opts InitOptions) (*Config, error) {
	if _, err := os.Stat(path); err == nil && !force {
		return nil, errors.NewError(errors.CategoryAlreadyExists, "configuration file already exists (use --force to overwrite)").
			UserAction().
			WithContext("path", path).
			Build()
	}

	cfg := Default()
	if opts.Title != "" {
		cfg.Site.Title = opts.Title
	}
	if !opts.SkipGit {
		applyRepository(cfg, filepath.Dir(path))
	}

	var buf bytes.Buffer
	buf.WriteString(initHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, errors.InternalError("failed to marshal config").WithCause(err).Build()
	}
	if err := enc.Close(); err != nil {
		return nil, errors.InternalError("failed to marshal config").WithCause(err).Build()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, errors.FileSystemError("failed to create config directory").WithCause(err).
				WithContext("path", dir).
				Build()
		}
	}
	// #nosec G306 - config is meant to be committed and readable
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, errors.FileSystemError("failed to write config file").WithCause(err).
			WithContext("path", path).
			Build()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	cfg.path = abs
	return cfg, nil
}

// applyRepository points the first social link at the enclosing
// repository's origin when it is hosted on a known forge.
func applyRepository(cfg *Config, dir string) {
	repo, err := gitinfo.Detect(dir)
	if err != nil || repo.WebURL == "" {
		return
	}
	icon, ok := socialIcons[repo.Host]
	if !ok {
		slog.Debug("Origin host has no social icon", slog.String("host", repo.Host))
		return
	}
	link := site.SocialLink{Icon: icon, Label: hostLabel(icon), Href: repo.WebURL}
	if len(cfg.Site.Social) == 0 {
		cfg.Site.Social = []site.SocialLink{link}
	} else {
		cfg.Site.Social[0] = link
	}
	slog.Debug("Derived repository link from git origin", logfields.Path(repo.Root), slog.String("href", repo.WebURL))
}

func hostLabel(icon string) string {
	switch icon {
	case "github":
		return "GitHub"
	case "gitlab":
		return "GitLab"
	}
	return strings.ToUpper(icon[:1]) + icon[1:]
}
