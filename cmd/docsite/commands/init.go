package commands

import (
	"fmt"
	"path/filepath"

	"github.com/jhlabs/unfold/docsite/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Title  string `help:"Site title (default: Unfold.js)"`
	NoGit  bool   `name:"no-git" help:"Do not derive the repository link from the git origin"`
	Output string `short:"o" name:"output" help:"Directory to write docsite.yaml into (default: --config)"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := root.Config
	if i.Output != "" {
		path = filepath.Join(i.Output, "docsite.yaml")
	}
	w := g.out()
	_, _ = fmt.Fprintf(w, "Writing configuration to %s\n", path)
	cfg, err := config.Init(path, i.Force, config.InitOptions{Title: i.Title, SkipGit: i.NoGit})
	if err != nil {
		_, _ = fmt.Fprintln(w, "Initialization failed")
		return err
	}
	_, _ = fmt.Fprintf(w, "Initialized %q (content in %s)\n", cfg.Site.Title, cfg.Content.Root)
	return nil
}
