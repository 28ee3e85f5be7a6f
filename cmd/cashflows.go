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

type cashflowsCmd struct {
	instrument string
	all        bool
	sells      bool
	store      bool
	ledgerName string
}

func (*cashflowsCmd) Name() string     { return "cashflows" }
func (*cashflowsCmd) Synopsis() string { return "project the future cashflows of bond holdings" }
func (*cashflowsCmd) Usage() string {
	return `ivl cashflows [-i <instrument> | -all] [-sells] [-store] [-l <ledger>]

  Projects the coupon and amortization cashflows of instruments with
  declared terms, from their purchase dates to maturity. With -store,
  replaces the stored projection of each instrument. With -all, every
  instrument in the ledger is projected; an instrument that fails does
  not stop the others.
`
}

func (p *cashflowsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.instrument, "i", "", "Instrument to project.")
	f.BoolVar(&p.all, "all", false, "Project every instrument in the ledger.")
	f.BoolVar(&p.sells, "sells", false, "Reduce holdings by sell transactions when projecting.")
	f.BoolVar(&p.store, "store", false, "Replace the stored cashflow projection.")
	f.StringVar(&p.ledgerName, "l", "", "Ledger to report on. Defaults to the only ledger if one exists.")
}

func (p *cashflowsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if (p.instrument == "") == !p.all {
		fmt.Fprintln(os.Stderr, "Error: exactly one of -i or -all is required.")
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger(p.ledgerName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	instruments := []string{p.instrument}
	if p.all {
		instruments = ledger.Instruments()
	}

	opts := invest.ProjectOptions{AccountForSells: p.sells}
	store := invest.NewCashflowStore(LedgerPath())

	status := subcommands.ExitSuccess
	for _, instrument := range instruments {
		report, err := ledger.CalculateCashflows(instrument, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error projecting %s: %v\n", instrument, err)
			status = subcommands.ExitFailure
			continue
		}
		if len(report.Rows) == 0 {
			// Equities and matured bonds have nothing to project.
			continue
		}
		if p.store {
			if err := store.Replace(instrument, report.Rows); err != nil {
				fmt.Fprintf(os.Stderr, "Error storing projection for %s: %v\n", instrument, err)
				status = subcommands.ExitFailure
				continue
			}
		}
		printMarkdown(renderer.CashflowMarkdown(report))
	}
	return status
}
