// Package cmd implements the CLI application to manage an investment ledger.
package cmd

import (
	"flag"

	"github.com/google/subcommands"
	"github.com/ssolera/invest"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&buyCmd{}, "ledger")
	c.Register(&sellCmd{}, "ledger")
	c.Register(&termsCmd{}, "ledger")
	c.Register(&fmtCmd{}, "ledger")

	c.Register(&txCmd{}, "reports")
	c.Register(&positionCmd{}, "reports")
	c.Register(&cashflowsCmd{}, "reports")
	c.Register(&xirrCmd{}, "reports")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerPath = flag.String("ledger-path", ".", "Path to the folder containing ledger files (JSONL format)")

// LedgerPath returns the folder holding the ledger and cashflow files.
func LedgerPath() string { return *ledgerPath }

// DecodeLedger loads the named ledger from the app ledger path folder.
// With an empty name it resolves the only ledger in the folder, or an
// empty default one.
func DecodeLedger(name string) (*invest.Ledger, error) {
	return invest.FindLedger(*ledgerPath, name)
}
