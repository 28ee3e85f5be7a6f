package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/ssolera/invest"
	"github.com/ssolera/invest/date"
)

type buyCmd struct {
	date       string
	instrument string
	quantity   float64
	price      float64
	commission float64
	currency   string
	ledgerName string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record the buy of an instrument" }
func (*buyCmd) Usage() string {
	return `ivl buy -i <instrument> -q <quantity> -p <price> [-c <commission>] [-cur <currency>] [-d <date>] [-l <ledger>]

  Records a buy transaction in the ledger. The price is per unit, the
  commission is the total paid for the trade.
`
}

func (p *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", date.Today().String(), "Date of the transaction.")
	f.StringVar(&p.instrument, "i", "", "Instrument bought.")
	f.Float64Var(&p.quantity, "q", 0, "Quantity bought.")
	f.Float64Var(&p.price, "p", 0, "Price per unit.")
	f.Float64Var(&p.commission, "c", 0, "Total commission paid.")
	f.StringVar(&p.currency, "cur", "EUR", "Currency of the price and commission.")
	f.StringVar(&p.ledgerName, "l", "", "Ledger to record into. Defaults to the only ledger if one exists.")
}

func (p *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(p.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger(p.ledgerName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	tx := invest.NewBuy("", on, p.instrument,
		invest.Q(p.quantity),
		invest.M(p.price, p.currency),
		invest.M(p.commission, p.currency))

	if err := ledger.Append(tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording buy: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := invest.SaveLedger(LedgerPath(), ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully appended buy of %s %s to ledger %q\n", tx.Quantity, tx.Instrument, ledger.Name())
	return subcommands.ExitSuccess
}
