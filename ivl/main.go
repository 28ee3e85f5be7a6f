package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/ssolera/invest/cmd"
)

// completion describes the CLI for shell completion. Running the
// binary with COMP_LINE set answers the completion request and exits.
var completion = &complete.Command{
	Sub: map[string]*complete.Command{
		"buy":       {Flags: tradeFlags()},
		"sell":      {Flags: tradeFlags()},
		"terms":     {Flags: map[string]complete.Predictor{"i": predict.Something, "cur": predict.Something, "maturity": predict.Something, "emission": predict.Something, "freq": predict.Something, "coupon": predict.Something, "amortization": predict.Set{"bullet", "linear", "custom"}, "schedule": predict.Something, "l": predict.Something}},
		"fmt":       {Flags: map[string]complete.Predictor{"l": predict.Something}},
		"tx":        {Flags: map[string]complete.Predictor{"i": predict.Something, "head": predict.Something, "tail": predict.Something, "l": predict.Something}},
		"position":  {Flags: map[string]complete.Predictor{"i": predict.Something, "l": predict.Something}},
		"cashflows": {Flags: map[string]complete.Predictor{"i": predict.Something, "all": predict.Nothing, "sells": predict.Nothing, "store": predict.Nothing, "l": predict.Something}},
		"xirr":      {Flags: map[string]complete.Predictor{"i": predict.Something, "projected": predict.Nothing, "sells": predict.Nothing, "l": predict.Something}},
		"topic":     {Args: predict.Something},
	},
	Flags: map[string]complete.Predictor{
		"ledger-path": predict.Dirs("*"),
	},
}

func tradeFlags() map[string]complete.Predictor {
	return map[string]complete.Predictor{
		"d":   predict.Something,
		"i":   predict.Something,
		"q":   predict.Something,
		"p":   predict.Something,
		"c":   predict.Something,
		"cur": predict.Something,
		"l":   predict.Something,
	}
}

func main() {
	completion.Complete("ivl")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
