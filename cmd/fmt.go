package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/ssolera/invest"
)

type fmtCmd struct {
	ledgerName string
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `ivl fmt [-l <ledger>]

  Validates and formats the ledger file. This command reads all terms and
  transactions, validates them, sorts transactions by date, and writes the
  file back in a canonical JSONL format.
`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.ledgerName, "l", "", "Ledger to format. Defaults to the only ledger if one exists.")
}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger(p.ledgerName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := invest.SaveLedger(LedgerPath(), ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted ledger %q: %v\n", ledger.Name(), err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Finished formatting ledger %q.\n", ledger.Name())
	return subcommands.ExitSuccess
}
