package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jhlabs/unfold/docsite/internal/build"
	"github.com/jhlabs/unfold/docsite/internal/config"
	"github.com/jhlabs/unfold/docsite/internal/content"
)

// SidebarCmd implements the 'sidebar' command.
type SidebarCmd struct {
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
}

func (s *SidebarCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	inspection, err := build.Check(cfg)
	if err != nil {
		return err
	}
	if s.Format == "json" {
		enc := json.NewEncoder(g.out())
		enc.SetIndent("", "  ")
		return enc.Encode(inspection.Sidebar)
	}
	writeSidebar(g.out(), inspection.Sidebar, 0)
	return nil
}

func writeSidebar(w io.Writer, entries []content.Entry, depth int) {
	pad := strings.Repeat("  ", depth)
	for _, e := range entries {
		if e.IsGroup() {
			_, _ = fmt.Fprintf(w, "%s%s/\n", pad, e.Label)
			writeSidebar(w, e.Entries, depth+1)
			continue
		}
		line := fmt.Sprintf("%s%s -> %s", pad, e.Label, e.Slug)
		switch {
		case e.Missing:
			line += " (missing)"
		case e.Generated:
			line += " (generated)"
		}
		_, _ = fmt.Fprintln(w, line)
	}
}
