package invest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/ssolera/invest/date"
)

// cashflowSuffix names the per-instrument projected cashflow files.
const cashflowSuffix = ".cashflows.jsonl"

// StatusProjected marks rows generated by the projector, as opposed to
// rows confirmed by an actual payment. The store only ever replaces
// projected rows.
const StatusProjected = "projected"

// CashflowStore persists projected cashflow rows, one file per
// instrument under its root directory. A regeneration run fully
// replaces an instrument's projected rows: Replace writes the new
// rows to a temporary file and renames it over the old one, so
// readers never observe a mixed old/new schedule.
type CashflowStore struct {
	dir string
}

// NewCashflowStore creates a store rooted at dir.
func NewCashflowStore(dir string) *CashflowStore {
	return &CashflowStore{dir: dir}
}

func (s *CashflowStore) path(instrument string) string {
	return filepath.Join(s.dir, instrument+cashflowSuffix)
}

// Replace atomically substitutes the projected rows of one instrument
// with the given rows. An empty row set removes the file.
func (s *CashflowStore) Replace(instrument string, rows []CashflowRow) error {
	if instrument == "" {
		return fmt.Errorf("cannot store cashflows without an instrument")
	}
	if len(rows) == 0 {
		if err := os.Remove(s.path(instrument)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("could not clear cashflows for %q: %w", instrument, err)
		}
		return nil
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("could not create cashflow directory %q: %w", s.dir, err)
	}
	tmp, err := os.CreateTemp(s.dir, instrument+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary cashflow file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, row := range rows {
		var line jsonObjectWriter
		line.Append("status", StatusProjected)
		line.EmbedFrom(row)
		b, err := line.MarshalJSON()
		if err != nil {
			tmp.Close()
			return fmt.Errorf("could not encode cashflow row for %q: %w", instrument, err)
		}
		w.Write(b)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(instrument))
}

// cashflowLine is a specialized struct for decoding stored rows.
type cashflowLine struct {
	Status string    `json:"status"`
	Date   date.Date `json:"date"`
	Kind   string    `json:"kind"`
	Amount struct {
		Currency string          `json:"currency"`
		Amount   decimal.Decimal `json:"amount"`
	} `json:"amount"`
	CapitalResidual struct {
		Currency string          `json:"currency"`
		Amount   decimal.Decimal `json:"amount"`
	} `json:"capitalResidual"`
	Description string `json:"description"`
}

// Load reads back the stored projected rows of one instrument. A
// missing file is an empty schedule, not an error.
func (s *CashflowStore) Load(instrument string) ([]CashflowRow, error) {
	f, err := os.Open(s.path(instrument))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not open cashflows for %q: %w", instrument, err)
	}
	defer f.Close()

	var rows []CashflowRow
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var line cashflowLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			return nil, fmt.Errorf("could not decode cashflow row for %q: %w", instrument, err)
		}
		kind, err := ParseCashflowKind(line.Kind)
		if err != nil {
			return nil, err
		}
		rows = append(rows, CashflowRow{
			Date:            line.Date,
			Amount:          M(line.Amount.Amount, line.Amount.Currency),
			Kind:            kind,
			Description:     line.Description,
			CapitalResidual: M(line.CapitalResidual.Amount, line.CapitalResidual.Currency),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read cashflows for %q: %w", instrument, err)
	}
	return rows, nil
}
