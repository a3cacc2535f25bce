package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/jhlabs/unfold/docsite/cmd/docsite/commands"
	"github.com/jhlabs/unfold/docsite/internal/foundation/errors"
	"github.com/jhlabs/unfold/docsite/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("docsite"),
		kong.Description("Manage the Unfold.js documentation site configuration"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := &commands.Global{Logger: slog.Default(), Out: os.Stdout}
	if err := parser.Run(global, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
