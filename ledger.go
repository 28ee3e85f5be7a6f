package invest

import (
	"fmt"
	"log"
	"sort"
)

// Ledger holds the transaction history and instrument terms of one
// portfolio. It is the single input surface of the engine: matching,
// projection, and return calculations all read from it and none of
// them writes back.
type Ledger struct {
	name         string
	terms        map[string]Terms
	transactions []Transaction
}

// NewLedger creates a new empty ledger.
func NewLedger() *Ledger {
	return &Ledger{terms: make(map[string]Terms)}
}

// Name returns the ledger's name, set from its file path by the loader.
func (l *Ledger) Name() string { return l.name }

// Declare records the contractual terms of an instrument. Declaring an
// instrument twice replaces the previous terms.
func (l *Ledger) Declare(t Terms) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if old, ok := l.terms[t.Instrument]; ok {
		log.Printf("replacing terms for %q (maturity %s with %s)", t.Instrument, old.MaturityDate, t.MaturityDate)
	}
	l.terms[t.Instrument] = t
	return nil
}

// Terms returns the declared terms for an instrument, if any.
// Instruments without terms (equities) have no repayment schedule.
func (l *Ledger) Terms(instrument string) (Terms, bool) {
	t, ok := l.terms[instrument]
	return t, ok
}

// Append validates and records transactions. Transactions without an
// ID are assigned a sequential one.
func (l *Ledger) Append(txs ...Transaction) error {
	for _, tx := range txs {
		if tx.ID == "" {
			tx.ID = fmt.Sprintf("%s-%d", tx.Side, len(l.transactions)+1)
		}
		if err := tx.Validate(); err != nil {
			return err
		}
		l.transactions = append(l.transactions, tx)
	}
	return nil
}

// Instruments returns the sorted union of instruments that have terms
// or transactions.
func (l *Ledger) Instruments() []string {
	seen := make(map[string]bool)
	for instrument := range l.terms {
		seen[instrument] = true
	}
	for _, tx := range l.transactions {
		seen[tx.Instrument] = true
	}
	instruments := make([]string, 0, len(seen))
	for instrument := range seen {
		instruments = append(instruments, instrument)
	}
	sort.Strings(instruments)
	return instruments
}

// Transactions returns the transactions of one instrument (or all of
// them when instrument is empty), sorted by ascending date with input
// order preserved for same-date transactions.
func (l *Ledger) Transactions(instrument string) []Transaction {
	var txs []Transaction
	for _, tx := range l.transactions {
		if instrument == "" || tx.Instrument == instrument {
			txs = append(txs, tx)
		}
	}
	return sortTransactions(txs)
}

// Match runs the FIFO lot matcher over one instrument's transactions.
func (l *Ledger) Match(instrument string) (MatchResult, error) {
	return Match(l.Transactions(instrument))
}

// Project computes the projected cashflow rows of one instrument.
// Instruments without declared terms have no contractual schedule and
// yield no rows; that is not an error.
func (l *Ledger) Project(instrument string, opts ProjectOptions) ([]CashflowRow, error) {
	terms, ok := l.Terms(instrument)
	if !ok {
		return nil, nil
	}
	return Project(terms, l.Transactions(instrument), opts)
}

// Flows assembles the dated cash flows of one instrument for the
// return solver: buys are money out, sells money in, and each provided
// cashflow row money in at its date.
func (l *Ledger) Flows(instrument string, projected []CashflowRow) []Flow {
	var flows []Flow
	for _, tx := range l.Transactions(instrument) {
		total := tx.Price.Mul(tx.Quantity)
		switch tx.Side {
		case Buy:
			flows = append(flows, Flow{Amount: -total.Add(tx.Commission).AsFloat(), Date: tx.Date})
		case Sell:
			flows = append(flows, Flow{Amount: total.Sub(tx.Commission).AsFloat(), Date: tx.Date})
		}
	}
	for _, row := range projected {
		flows = append(flows, Flow{Amount: row.Amount.AsFloat(), Date: row.Date})
	}
	return flows
}
