package invest

import (
	"fmt"
	"sort"

	"github.com/ssolera/invest/date"
)

// CommandType is a typed string for identifying ledger commands.
type CommandType string

// Command types used for identifying ledger lines.
const (
	CmdTerms CommandType = "terms"
	CmdBuy   CommandType = "buy"
	CmdSell  CommandType = "sell"
)

// Side identifies the direction of a transaction.
type Side int

const (
	// Buy acquires units of an instrument.
	Buy Side = iota
	// Sell disposes of units previously acquired.
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// ParseSide parses a string into a Side.
func ParseSide(str string) (Side, error) {
	switch str {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown transaction side: %q", str)
	}
}

// Transaction is a single buy or sell of an instrument. It is an
// immutable input value: the engine never mutates it.
type Transaction struct {
	ID         string
	Date       date.Date
	Instrument string
	Side       Side
	Quantity   Quantity // number of units, always positive
	Price      Money    // unit price
	Commission Money    // total commission paid on the transaction
}

// NewBuy creates a buy transaction.
func NewBuy(id string, on date.Date, instrument string, quantity Quantity, price, commission Money) Transaction {
	return Transaction{ID: id, Date: on, Instrument: instrument, Side: Buy, Quantity: quantity, Price: price, Commission: commission}
}

// NewSell creates a sell transaction.
func NewSell(id string, on date.Date, instrument string, quantity Quantity, price, commission Money) Transaction {
	return Transaction{ID: id, Date: on, Instrument: instrument, Side: Sell, Quantity: quantity, Price: price, Commission: commission}
}

// Currency returns the currency the transaction is denominated in.
func (t Transaction) Currency() string { return cur(t.Price, t.Commission) }

// Validate checks the transaction fields for internal consistency.
func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("transaction %q has no date", t.ID)
	}
	if t.Instrument == "" {
		return fmt.Errorf("transaction %q has no instrument", t.ID)
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("transaction %q quantity must be positive, got %s", t.ID, t.Quantity)
	}
	if t.Price.IsNegative() {
		return fmt.Errorf("transaction %q price must not be negative, got %s", t.ID, t.Price)
	}
	if t.Commission.IsNegative() {
		return fmt.Errorf("transaction %q commission must not be negative, got %s", t.ID, t.Commission)
	}
	if t.Price.Currency() != "" && t.Commission.Currency() != "" && t.Price.Currency() != t.Commission.Currency() {
		return fmt.Errorf("transaction %q mixes currencies %s and %s", t.ID, t.Price.Currency(), t.Commission.Currency())
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", CommandType(t.Side.String()))
	w.Append("date", t.Date)
	w.Optional("id", t.ID)
	w.Append("instrument", t.Instrument)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price.value)
	w.Append("commission", t.Commission.value)
	w.Append("currency", t.Currency())
	return w.MarshalJSON()
}

// sortTransactions orders transactions by ascending date, preserving
// the input order of same-date transactions. Same-date order is part
// of the matching contract, so the sort must be stable.
func sortTransactions(txs []Transaction) []Transaction {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	return sorted
}
