package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/ssolera/invest"
	"github.com/ssolera/invest/renderer"
)

type xirrCmd struct {
	instrument string
	projected  bool
	sells      bool
	ledgerName string
}

func (*xirrCmd) Name() string     { return "xirr" }
func (*xirrCmd) Synopsis() string { return "compute the annualized internal rate of return" }
func (*xirrCmd) Usage() string {
	return `ivl xirr -i <instrument> [-projected] [-sells] [-l <ledger>]

  Computes the annualized internal rate of return of an instrument from
  its dated cash flows: buys out, sells in. With -projected, the future
  coupon and amortization cashflows are included.
`
}

func (p *xirrCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.instrument, "i", "", "Instrument to report on.")
	f.BoolVar(&p.projected, "projected", false, "Include projected future cashflows.")
	f.BoolVar(&p.sells, "sells", false, "Reduce holdings by sell transactions when projecting.")
	f.StringVar(&p.ledgerName, "l", "", "Ledger to report on. Defaults to the only ledger if one exists.")
}

func (p *xirrCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.instrument == "" {
		fmt.Fprintln(os.Stderr, "Error: -i is required.")
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger(p.ledgerName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	report, err := ledger.CalculateReturn(p.instrument, p.projected, invest.ProjectOptions{AccountForSells: p.sells})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing return for %s: %v\n", p.instrument, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.ReturnMarkdown(report))
	return subcommands.ExitSuccess
}
