package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/ssolera/invest/renderer"
)

type positionCmd struct {
	instrument string
	ledgerName string
}

func (*positionCmd) Name() string     { return "position" }
func (*positionCmd) Synopsis() string { return "report open lots and realized gains" }
func (*positionCmd) Usage() string {
	return `ivl position [-i <instrument>] [-l <ledger>]

  Reports the open position, remaining lots and realized gains of an
  instrument, matching sells against buys first-in first-out. Without
  -i, reports every instrument in the ledger.
`
}

func (p *positionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.instrument, "i", "", "Instrument to report on. Defaults to all instruments.")
	f.StringVar(&p.ledgerName, "l", "", "Ledger to report on. Defaults to the only ledger if one exists.")
}

func (p *positionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger(p.ledgerName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	instruments := []string{p.instrument}
	if p.instrument == "" {
		instruments = ledger.Instruments()
	}

	status := subcommands.ExitSuccess
	for _, instrument := range instruments {
		report, err := ledger.CalculatePosition(instrument)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error computing position for %s: %v\n", instrument, err)
			status = subcommands.ExitFailure
			continue
		}
		printMarkdown(renderer.PositionMarkdown(report))
	}
	return status
}
