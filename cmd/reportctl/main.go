// Package main provides reportctl, a command line front end to the report engine.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/portfolio-report/internal/types"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commander.Register(&renderCmd{target: types.TargetPDF}, "render")
	commander.Register(&renderCmd{target: types.TargetHTML}, "render")
	commander.Register(&validateCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
