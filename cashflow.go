package invest

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/ssolera/invest/date"
)

const (
	// maxSchedulePeriods bounds the backward payment-date walk.
	// Exceeding it means the terms are malformed (e.g. a frequency of
	// one month over a century), not that the instrument is unusual.
	maxSchedulePeriods = 100

	// fallbackScheduleMonths is the window projected before maturity
	// when the emission date is unknown.
	fallbackScheduleMonths = 24
)

// CashflowKind identifies the nature of a projected cash row.
type CashflowKind int

const (
	// Interest is a coupon payment.
	Interest CashflowKind = iota
	// Amortization is a repayment of principal.
	Amortization
)

func (k CashflowKind) String() string {
	switch k {
	case Interest:
		return "interest"
	case Amortization:
		return "amortization"
	default:
		return "unknown"
	}
}

// ParseCashflowKind parses a string into a CashflowKind.
func ParseCashflowKind(s string) (CashflowKind, error) {
	switch s {
	case "interest":
		return Interest, nil
	case "amortization":
		return Amortization, nil
	default:
		return 0, fmt.Errorf("unknown cashflow kind: %q", s)
	}
}

// CashflowRow is one projected future cash payment for a holder.
type CashflowRow struct {
	Date            date.Date
	Amount          Money
	Kind            CashflowKind
	Description     string
	CapitalResidual Money // outstanding capital after this period's amortization
}

// MarshalJSON implements the json.Marshaler interface for CashflowRow.
func (r CashflowRow) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", r.Date)
	w.Append("kind", r.Kind.String())
	w.Append("amount", r.Amount.exact())
	w.Append("capitalResidual", r.CapitalResidual.exact())
	w.Optional("description", r.Description)
	return w.MarshalJSON()
}

// PeriodFactor describes one coupon date of an instrument: the
// fraction of the face value amortized at that date and the fraction
// still outstanding when the period starts.
type PeriodFactor struct {
	Date            date.Date
	Amortization    float64 // fraction of face value repaid at this date, 0..1
	ResidualAtStart float64 // fraction outstanding before this period's amortization, 0..1
}

// ProjectOptions tunes the projection.
type ProjectOptions struct {
	// AccountForSells subtracts sells from the holdings used for each
	// coupon period. The legacy behavior (false) counts cumulative buys
	// only, which overstates projected cash for instruments partially
	// sold; it is kept as the default for compatibility with
	// previously generated schedules.
	AccountForSells bool
}

// Schedule computes the coupon dates and amortization factors of an
// instrument, independent of any holder. The factors sum to 1 and the
// residual sequence is non-increasing, ending at 0.
func Schedule(terms Terms) ([]PeriodFactor, error) {
	dates, err := paymentDates(terms)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, nil
	}

	factors := amortizationFactors(terms, dates)

	periods := make([]PeriodFactor, len(dates))
	residual := 1.0
	for i, on := range dates {
		periods[i] = PeriodFactor{Date: on, Amortization: factors[i], ResidualAtStart: residual}
		residual -= factors[i]
		if residual < 0 {
			residual = 0
		}
	}
	return periods, nil
}

// paymentDates walks backward from maturity in steps of the coupon
// frequency, using end-of-month-safe month subtraction, until the
// emission date (or the fallback window when emission is unknown).
// The dates are returned in ascending order.
func paymentDates(terms Terms) ([]date.Date, error) {
	if terms.MaturityDate.IsZero() {
		return nil, &MissingTermsError{Instrument: terms.Instrument, Field: "maturity date"}
	}
	if terms.FrequencyMonths <= 0 {
		return nil, &MissingTermsError{Instrument: terms.Instrument, Field: "coupon frequency"}
	}

	start := terms.EmissionDate
	if start.IsZero() {
		start = terms.MaturityDate.AddMonths(-fallbackScheduleMonths)
	}

	var reversed []date.Date
	for i := 0; ; i++ {
		if i > maxSchedulePeriods {
			return nil, &ScheduleOverflowError{Instrument: terms.Instrument, Periods: maxSchedulePeriods}
		}
		// Each date is derived from maturity, not from the previous
		// step, so end-of-month clamping never drifts.
		on := terms.MaturityDate.AddMonths(-i * terms.FrequencyMonths)
		if !on.After(start) {
			break
		}
		reversed = append(reversed, on)
	}

	dates := make([]date.Date, len(reversed))
	for i, on := range reversed {
		dates[len(dates)-1-i] = on
	}
	return dates, nil
}

// amortizationFactors assigns the fraction of face value repaid at
// each coupon date according to the instrument's amortization kind.
func amortizationFactors(terms Terms, dates []date.Date) []float64 {
	n := len(dates)
	factors := make([]float64, n)

	switch terms.Amortization {
	case Linear:
		for i := range factors {
			factors[i] = 1.0 / float64(n)
		}
	case Custom:
		matched := 0
		for _, entry := range terms.Schedule {
			idx := -1
			for i, on := range dates {
				if on.Year() == entry.PaymentDate.Year() && on.Month() == entry.PaymentDate.Month() {
					idx = i
					break
				}
			}
			if idx < 0 {
				// A known discrepancy between the declared schedule and
				// the computed coupon dates: keep going with whatever
				// matched.
				log.Printf("terms %s: schedule entry %s (%.2f%%) matches no coupon period, ignored",
					terms.Instrument, entry.PaymentDate, entry.Percentage)
				continue
			}
			factors[idx] += entry.Percentage / 100
			matched++
		}
		if matched == 0 {
			// Producing zero payments would silently erase the debt:
			// degrade to bullet instead.
			log.Printf("terms %s: no custom schedule entry matches any coupon period, falling back to bullet", terms.Instrument)
			factors[n-1] = 1.0
		}
	default: // Bullet
		factors[n-1] = 1.0
	}
	return factors
}

// Project computes the future interest and amortization cash rows owed
// to the holder of an instrument, given its contractual terms and the
// holder's transaction history.
//
// The function is pure: it never consults a clock, keeps no state, and
// returns identical rows for identical inputs.
func Project(terms Terms, transactions []Transaction, opts ProjectOptions) ([]CashflowRow, error) {
	periods, err := Schedule(terms)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, nil
	}

	currency := terms.Currency
	if currency == "" && len(transactions) > 0 {
		currency = transactions[0].Currency()
	}

	txs := sortTransactions(transactions)

	accrualStart := terms.EmissionDate
	if accrualStart.IsZero() {
		accrualStart = terms.MaturityDate.AddMonths(-fallbackScheduleMonths)
	}

	var rows []CashflowRow
	prev := accrualStart
	next := 0 // next transaction to fold into holdings
	holdings := Q(0)

	for i, period := range periods {
		for next < len(txs) && !txs[next].Date.After(period.Date) {
			tx := txs[next]
			switch tx.Side {
			case Buy:
				holdings = holdings.Add(tx.Quantity)
			case Sell:
				if opts.AccountForSells {
					holdings = holdings.Sub(tx.Quantity)
				}
			}
			next++
		}

		days := date.DaysBetween(prev, period.Date)
		prev = period.Date

		if !holdings.IsPositive() {
			continue
		}

		residualAfter := period.ResidualAtStart - period.Amortization
		if residualAfter < 0 {
			residualAfter = 0
		}
		capitalResidual := M(holdings.value.Mul(decimal.NewFromFloat(residualAfter)), currency)

		interest := holdings.value.Mul(decimal.NewFromFloat(period.ResidualAtStart * terms.CouponRate * float64(days) / 365))
		if interest.IsPositive() {
			rows = append(rows, CashflowRow{
				Date:            period.Date,
				Amount:          M(interest, currency),
				Kind:            Interest,
				Description:     fmt.Sprintf("%s coupon %d/%d (%d days)", terms.Instrument, i+1, len(periods), days),
				CapitalResidual: capitalResidual,
			})
		}

		amortization := holdings.value.Mul(decimal.NewFromFloat(period.Amortization))
		if amortization.IsPositive() {
			rows = append(rows, CashflowRow{
				Date:            period.Date,
				Amount:          M(amortization, currency),
				Kind:            Amortization,
				Description:     fmt.Sprintf("%s amortization %d/%d", terms.Instrument, i+1, len(periods)),
				CapitalResidual: capitalResidual,
			})
		}
	}

	return rows, nil
}
