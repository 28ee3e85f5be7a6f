package invest

import (
	"fmt"

	"github.com/ssolera/invest/date"
)

// AmortizationKind defines how an instrument repays its principal.
type AmortizationKind int

const (
	// Bullet repays 100% of the principal in a single payment at maturity.
	Bullet AmortizationKind = iota
	// Linear repays the principal in equal parts at every coupon date.
	Linear
	// Custom repays the principal according to an explicit schedule.
	Custom
)

func (k AmortizationKind) String() string {
	switch k {
	case Bullet:
		return "bullet"
	case Linear:
		return "linear"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParseAmortizationKind parses a string into an AmortizationKind.
func ParseAmortizationKind(s string) (AmortizationKind, error) {
	switch s {
	case "bullet", "":
		return Bullet, nil
	case "linear":
		return Linear, nil
	case "custom":
		return Custom, nil
	default:
		return 0, fmt.Errorf("unknown amortization kind: %q", s)
	}
}

// ScheduleEntry is one principal repayment of a custom amortization
// schedule, as a percentage (0-100) of the face value.
type ScheduleEntry struct {
	PaymentDate date.Date
	Percentage  float64
}

// Terms holds the contractual repayment terms of an instrument. They
// are supplied by the caller and read-only to the engine. Instruments
// without a repayment schedule (equities) simply have no Terms.
type Terms struct {
	Instrument      string
	Currency        string
	MaturityDate    date.Date
	EmissionDate    date.Date // zero when unknown
	FrequencyMonths int       // months between coupon dates
	CouponRate      float64   // annual rate, e.g. 0.045 for 4.5%
	Amortization    AmortizationKind
	Schedule        []ScheduleEntry // only for Custom
}

// Validate checks that the terms are internally consistent. It does
// not require the fields the projector needs; missing projection
// fields are reported by Project itself.
func (t Terms) Validate() error {
	if t.Instrument == "" {
		return fmt.Errorf("terms have no instrument")
	}
	if t.FrequencyMonths < 0 {
		return fmt.Errorf("terms for %q: frequency must not be negative, got %d", t.Instrument, t.FrequencyMonths)
	}
	if t.CouponRate < 0 {
		return fmt.Errorf("terms for %q: coupon rate must not be negative, got %g", t.Instrument, t.CouponRate)
	}
	if !t.EmissionDate.IsZero() && !t.MaturityDate.IsZero() && !t.EmissionDate.Before(t.MaturityDate) {
		return fmt.Errorf("terms for %q: emission %s is not before maturity %s", t.Instrument, t.EmissionDate, t.MaturityDate)
	}
	if t.Amortization == Custom && len(t.Schedule) == 0 {
		return fmt.Errorf("terms for %q: custom amortization without a schedule", t.Instrument)
	}
	for _, e := range t.Schedule {
		if e.Percentage <= 0 || e.Percentage > 100 {
			return fmt.Errorf("terms for %q: schedule percentage out of (0,100]: %g", t.Instrument, e.Percentage)
		}
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Terms.
func (t Terms) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", CmdTerms)
	w.Append("instrument", t.Instrument)
	w.Optional("currency", t.Currency)
	w.Optional("maturity", t.MaturityDate)
	w.Optional("emission", t.EmissionDate)
	w.Optional("frequencyMonths", t.FrequencyMonths)
	w.Optional("couponRate", t.CouponRate)
	w.Append("amortization", t.Amortization.String())
	if len(t.Schedule) > 0 {
		type entry struct {
			Date       date.Date `json:"date"`
			Percentage float64   `json:"percentage"`
		}
		entries := make([]entry, 0, len(t.Schedule))
		for _, e := range t.Schedule {
			entries = append(entries, entry{e.PaymentDate, e.Percentage})
		}
		w.Append("schedule", entries)
	}
	return w.MarshalJSON()
}
