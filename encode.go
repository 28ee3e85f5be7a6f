package invest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/ssolera/invest/date"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// txLine is a specialized struct for decoding buy/sell ledger lines.
type txLine struct {
	Command    CommandType     `json:"command"`
	Date       date.Date       `json:"date"`
	ID         string          `json:"id"`
	Instrument string          `json:"instrument"`
	Quantity   Quantity        `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Commission decimal.Decimal `json:"commission"`
	Currency   string          `json:"currency"`
}

// termsLine is a specialized struct for decoding terms ledger lines.
type termsLine struct {
	Command         CommandType `json:"command"`
	Instrument      string      `json:"instrument"`
	Currency        string      `json:"currency"`
	Maturity        date.Date   `json:"maturity"`
	Emission        date.Date   `json:"emission"`
	FrequencyMonths int         `json:"frequencyMonths"`
	CouponRate      float64     `json:"couponRate"`
	Amortization    string      `json:"amortization"`
	Schedule        []struct {
		Date       date.Date `json:"date"`
		Percentage float64   `json:"percentage"`
	} `json:"schedule"`
}

// DecodeLedger decodes a ledger from a stream of JSONL data: one typed
// command per line ("terms", "buy", "sell").
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify command in line %q: %w", string(lineBytes), err)
		}

		switch identifier.Command {
		case CmdBuy, CmdSell:
			var line txLine
			if err := json.Unmarshal(lineBytes, &line); err != nil {
				return nil, fmt.Errorf("could not decode %s line %q: %w", identifier.Command, string(lineBytes), err)
			}
			side, err := ParseSide(string(line.Command))
			if err != nil {
				return nil, err
			}
			tx := Transaction{
				ID:         line.ID,
				Date:       line.Date,
				Instrument: line.Instrument,
				Side:       side,
				Quantity:   line.Quantity,
				Price:      M(line.Price, line.Currency),
				Commission: M(line.Commission, line.Currency),
			}
			if err := ledger.Append(tx); err != nil {
				return nil, err
			}
		case CmdTerms:
			var line termsLine
			if err := json.Unmarshal(lineBytes, &line); err != nil {
				return nil, fmt.Errorf("could not decode terms line %q: %w", string(lineBytes), err)
			}
			kind, err := ParseAmortizationKind(line.Amortization)
			if err != nil {
				return nil, err
			}
			terms := Terms{
				Instrument:      line.Instrument,
				Currency:        line.Currency,
				MaturityDate:    line.Maturity,
				EmissionDate:    line.Emission,
				FrequencyMonths: line.FrequencyMonths,
				CouponRate:      line.CouponRate,
				Amortization:    kind,
			}
			for _, e := range line.Schedule {
				terms.Schedule = append(terms.Schedule, ScheduleEntry{PaymentDate: e.Date, Percentage: e.Percentage})
			}
			if err := ledger.Declare(terms); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown command %q in line %q", identifier.Command, string(lineBytes))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read ledger: %w", err)
	}
	return ledger, nil
}

// Encode writes the ledger in its canonical JSONL form: terms first,
// sorted by instrument, then transactions sorted by date (stable).
func (l *Ledger) Encode(w io.Writer) error {
	instruments := make([]string, 0, len(l.terms))
	for instrument := range l.terms {
		instruments = append(instruments, instrument)
	}
	sort.Strings(instruments)

	for _, instrument := range instruments {
		if err := encodeLine(w, l.terms[instrument]); err != nil {
			return err
		}
	}
	for _, tx := range l.Transactions("") {
		if err := encodeLine(w, tx); err != nil {
			return err
		}
	}
	return nil
}

func encodeLine(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not encode ledger line: %w", err)
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return err
	}
	return nil
}
