// Command folio tracks a portfolio of holdings and cash, measures its
// performance from recorded snapshots and reports Australian capital gains.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/etnz/folio/cmd"
	"github.com/etnz/folio/config"
	"github.com/etnz/folio/docs"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// exits early when invoked by the shell to complete a command line.
	completion().Complete("folio")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()

	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load(*cmd.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}
	cmd.Configure(cfg, config.NewLogger(cfg.Logging, os.Stderr))

	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the folio command line for shell completion.
func completion() *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(flag.CommandLine),
	}
	for _, c := range cmd.Commands {
		f := flag.NewFlagSet(c.Command.Name(), flag.ContinueOnError)
		c.Command.SetFlags(f)
		root.Sub[c.Command.Name()] = &complete.Command{Flags: flagPredictors(f)}
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	if topics, err := docs.Topics(); err == nil {
		root.Sub["topic"].Args = predict.Set(append(topics, "*"))
	}
	return root
}

// flagPredictors predicts nothing after a boolean flag, file names after a
// flag whose name says it is a file, anything otherwise.
func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	res := map[string]complete.Predictor{}
	f.VisitAll(func(fl *flag.Flag) {
		switch {
		case isBoolFlag(fl):
			res[fl.Name] = predict.Nothing
		case fl.Name == "f" || fl.Name == "benchmark" || path.Ext(fl.DefValue) != "":
			res[fl.Name] = predict.Files("*")
		case fl.Name == "period":
			res[fl.Name] = predict.Set{"daily", "weekly", "monthly", "quarterly", "yearly"}
		case fl.Name == "class":
			res[fl.Name] = predict.Set{"equity", "etf", "bond", "crypto", "commodity", "cash", "other"}
		default:
			res[fl.Name] = predict.Something
		}
	})
	return res
}

func isBoolFlag(fl *flag.Flag) bool {
	b, ok := fl.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
