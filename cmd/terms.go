package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"github.com/ssolera/invest"
	"github.com/ssolera/invest/date"
)

type termsCmd struct {
	instrument   string
	currency     string
	maturity     string
	emission     string
	frequency    int
	coupon       float64
	amortization string
	schedule     string
	ledgerName   string
}

func (*termsCmd) Name() string     { return "terms" }
func (*termsCmd) Synopsis() string { return "declare the repayment terms of an instrument" }
func (*termsCmd) Usage() string {
	return `ivl terms -i <instrument> [-maturity <date>] [-emission <date>] [-freq <months>] [-coupon <rate>] [-amortization <kind>] [-schedule <date:pct,...>] [-l <ledger>]

  Declares the contractual terms of an instrument (maturity, coupon,
  amortization profile). Declaring terms twice replaces the previous
  declaration. Instruments without terms are treated as equities and
  have no projected cashflows.

Usage Examples:
# A 4.5% semi-annual bullet bond.
$ ivl terms -i BOND-A -cur EUR -maturity 2030-06-30 -emission 2025-06-30 -freq 6 -coupon 0.045

# A custom amortization profile repaying in two halves.
$ ivl terms -i BOND-B -maturity 2030-06-30 -freq 12 -coupon 0.03 -amortization custom -schedule 2029-06-30:50,2030-06-30:50
`
}

func (p *termsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.instrument, "i", "", "Instrument to declare terms for.")
	f.StringVar(&p.currency, "cur", "EUR", "Currency of the instrument.")
	f.StringVar(&p.maturity, "maturity", "", "Maturity date.")
	f.StringVar(&p.emission, "emission", "", "Emission date, if known.")
	f.IntVar(&p.frequency, "freq", 0, "Months between coupon payments.")
	f.Float64Var(&p.coupon, "coupon", 0, "Annual coupon rate, e.g. 0.045 for 4.5%.")
	f.StringVar(&p.amortization, "amortization", "", "Amortization kind: bullet, linear or custom.")
	f.StringVar(&p.schedule, "schedule", "", "Custom amortization entries as date:percentage pairs, comma separated.")
	f.StringVar(&p.ledgerName, "l", "", "Ledger to record into. Defaults to the only ledger if one exists.")
}

func (p *termsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	terms := invest.Terms{
		Instrument:      p.instrument,
		Currency:        p.currency,
		FrequencyMonths: p.frequency,
		CouponRate:      p.coupon,
	}

	var err error
	if p.maturity != "" {
		if terms.MaturityDate, err = date.Parse(p.maturity); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing maturity date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if p.emission != "" {
		if terms.EmissionDate, err = date.Parse(p.emission); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing emission date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if terms.Amortization, err = invest.ParseAmortizationKind(p.amortization); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	if terms.Schedule, err = parseSchedule(p.schedule); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing schedule: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger(p.ledgerName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if err := ledger.Declare(terms); err != nil {
		fmt.Fprintf(os.Stderr, "Error declaring terms: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := invest.SaveLedger(LedgerPath(), ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully declared terms for %s in ledger %q\n", terms.Instrument, ledger.Name())
	return subcommands.ExitSuccess
}

// parseSchedule parses "2029-06-30:50,2030-06-30:50" into schedule entries.
func parseSchedule(s string) ([]invest.ScheduleEntry, error) {
	if s == "" {
		return nil, nil
	}
	var entries []invest.ScheduleEntry
	for _, pair := range strings.Split(s, ",") {
		day, pct, found := strings.Cut(pair, ":")
		if !found {
			return nil, fmt.Errorf("invalid schedule entry %q, want date:percentage", pair)
		}
		on, err := date.Parse(day)
		if err != nil {
			return nil, err
		}
		percentage, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid percentage in %q: %w", pair, err)
		}
		entries = append(entries, invest.ScheduleEntry{PaymentDate: on, Percentage: percentage})
	}
	return entries, nil
}
