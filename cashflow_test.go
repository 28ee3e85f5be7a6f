package invest

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ssolera/invest/date"
)

func bondTerms() Terms {
	return Terms{
		Instrument:      "BOND-A",
		Currency:        "EUR",
		MaturityDate:    date.New(2027, time.June, 30),
		EmissionDate:    date.New(2025, time.June, 30),
		FrequencyMonths: 6,
		CouponRate:      0.04,
		Amortization:    Bullet,
	}
}

func TestSchedule_Bullet(t *testing.T) {
	periods, err := Schedule(bondTerms())
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if len(periods) != 4 {
		t.Fatalf("expected 4 semiannual periods over 2 years, got %d", len(periods))
	}

	sum := 0.0
	nonZero := 0
	for _, p := range periods {
		sum += p.Amortization
		if p.Amortization != 0 {
			nonZero++
		}
	}
	if sum != 1.0 {
		t.Errorf("amortization factors sum = %g, want 1.0", sum)
	}
	if nonZero != 1 || periods[len(periods)-1].Amortization != 1.0 {
		t.Error("bullet must amortize 100% at the final period only")
	}
	if periods[len(periods)-1].Date != date.New(2027, time.June, 30) {
		t.Errorf("last period = %s, want maturity", periods[len(periods)-1].Date)
	}
}

func TestSchedule_Linear(t *testing.T) {
	terms := bondTerms()
	terms.Amortization = Linear

	periods, err := Schedule(terms)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	n := len(periods)
	sum := 0.0
	for _, p := range periods {
		if math.Abs(p.Amortization-1.0/float64(n)) > 1e-12 {
			t.Errorf("period %s factor = %g, want 1/%d", p.Date, p.Amortization, n)
		}
		sum += p.Amortization
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("factors sum = %g, want 1.0", sum)
	}
}

func TestSchedule_ResidualMonotonic(t *testing.T) {
	terms := bondTerms()
	terms.Amortization = Linear

	periods, err := Schedule(terms)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	if periods[0].ResidualAtStart != 1.0 {
		t.Errorf("residual starts at %g, want 1.0", periods[0].ResidualAtStart)
	}
	for i := 1; i < len(periods); i++ {
		if periods[i].ResidualAtStart > periods[i-1].ResidualAtStart {
			t.Errorf("residual increased from %g to %g at %s",
				periods[i-1].ResidualAtStart, periods[i].ResidualAtStart, periods[i].Date)
		}
	}
	last := periods[len(periods)-1]
	if final := last.ResidualAtStart - last.Amortization; math.Abs(final) > 1e-9 {
		t.Errorf("residual after the final amortization = %g, want 0", final)
	}
}

func TestSchedule_EndOfMonthDates(t *testing.T) {
	terms := Terms{
		Instrument:      "BOND-EOM",
		MaturityDate:    date.New(2026, time.August, 31),
		EmissionDate:    date.New(2025, time.August, 31),
		FrequencyMonths: 6,
	}
	periods, err := Schedule(terms)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if len(periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(periods))
	}
	if periods[0].Date != date.New(2026, time.February, 28) {
		t.Errorf("first period = %s, want the clamped 2026-02-28", periods[0].Date)
	}
}

func TestSchedule_MissingTerms(t *testing.T) {
	t.Run("maturity", func(t *testing.T) {
		terms := bondTerms()
		terms.MaturityDate = date.Date{}
		_, err := Schedule(terms)
		var missing *MissingTermsError
		if !errors.As(err, &missing) {
			t.Fatalf("expected *MissingTermsError, got %v", err)
		}
	})
	t.Run("frequency", func(t *testing.T) {
		terms := bondTerms()
		terms.FrequencyMonths = 0
		_, err := Schedule(terms)
		var missing *MissingTermsError
		if !errors.As(err, &missing) {
			t.Fatalf("expected *MissingTermsError, got %v", err)
		}
	})
}

func TestSchedule_Overflow(t *testing.T) {
	terms := bondTerms()
	terms.EmissionDate = date.New(1900, time.January, 1)
	terms.FrequencyMonths = 1

	_, err := Schedule(terms)
	var overflow *ScheduleOverflowError
	if !errors.As(err, &overflow) {
		t.Fatalf("expected *ScheduleOverflowError, got %v", err)
	}
}

func TestSchedule_FallbackWindow(t *testing.T) {
	terms := bondTerms()
	terms.EmissionDate = date.Date{} // unknown: 24 months before maturity

	periods, err := Schedule(terms)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if len(periods) != 4 {
		t.Errorf("expected 4 periods over the 24-month fallback window, got %d", len(periods))
	}
}

func TestSchedule_CustomMatching(t *testing.T) {
	terms := bondTerms()
	terms.Amortization = Custom
	terms.Schedule = []ScheduleEntry{
		// payment day differs from the coupon day: matching is by year-month
		{PaymentDate: date.New(2026, time.June, 15), Percentage: 40},
		{PaymentDate: date.New(2027, time.June, 15), Percentage: 60},
		// no coupon period in that month: logged and ignored
		{PaymentDate: date.New(2026, time.March, 1), Percentage: 10},
	}

	periods, err := Schedule(terms)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	byDate := make(map[date.Date]float64)
	for _, p := range periods {
		byDate[p.Date] = p.Amortization
	}
	if got := byDate[date.New(2026, time.June, 30)]; math.Abs(got-0.4) > 1e-12 {
		t.Errorf("2026-06 factor = %g, want 0.4", got)
	}
	if got := byDate[date.New(2027, time.June, 30)]; math.Abs(got-0.6) > 1e-12 {
		t.Errorf("2027-06 factor = %g, want 0.6", got)
	}
}

func TestSchedule_CustomFallsBackToBullet(t *testing.T) {
	terms := bondTerms()
	terms.Amortization = Custom
	terms.Schedule = []ScheduleEntry{
		{PaymentDate: date.New(2031, time.January, 1), Percentage: 100}, // matches nothing
	}

	periods, err := Schedule(terms)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if periods[len(periods)-1].Amortization != 1.0 {
		t.Error("zero matched entries must degrade to bullet, not to zero payments")
	}
}

func TestProject_BulletRows(t *testing.T) {
	terms := bondTerms()
	txs := []Transaction{
		NewBuy("b1", date.New(2025, time.July, 1), "BOND-A", Q(1000), M(0.98, "EUR"), M(0, "EUR")),
	}

	rows, err := Project(terms, txs, ProjectOptions{})
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}

	// 4 coupon periods held, plus one amortization at maturity.
	var interest, amortization []CashflowRow
	for _, row := range rows {
		switch row.Kind {
		case Interest:
			interest = append(interest, row)
		case Amortization:
			amortization = append(amortization, row)
		}
	}
	if len(interest) != 4 {
		t.Fatalf("expected 4 interest rows, got %d", len(interest))
	}
	if len(amortization) != 1 {
		t.Fatalf("expected 1 amortization row, got %d", len(amortization))
	}

	// First coupon: 1000 units * 1.0 residual * 4% * exact days / 365.
	days := date.DaysBetween(date.New(2025, time.June, 30), date.New(2025, time.December, 30))
	want := 1000 * 0.04 * float64(days) / 365
	if got := interest[0].Amount.AsFloat(); math.Abs(got-want) > 1e-9 {
		t.Errorf("first coupon = %g, want %g", got, want)
	}
	if interest[0].Date != date.New(2025, time.December, 30) {
		t.Errorf("first coupon date = %s", interest[0].Date)
	}

	final := amortization[0]
	if final.Date != terms.MaturityDate || !final.Amount.Equal(M(1000, "EUR")) {
		t.Errorf("amortization = %s at %s, want 1000 at maturity", final.Amount, final.Date)
	}
	if !final.CapitalResidual.IsZero() {
		t.Errorf("capital residual after maturity = %s, want 0", final.CapitalResidual)
	}
}

func TestProject_SkipsPeriodsBeforeHolding(t *testing.T) {
	terms := bondTerms()
	txs := []Transaction{
		// bought after the first two coupon dates
		NewBuy("b1", date.New(2026, time.July, 15), "BOND-A", Q(500), M(0.99, "EUR"), M(0, "EUR")),
	}

	rows, err := Project(terms, txs, ProjectOptions{})
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	for _, row := range rows {
		if !row.Date.After(date.New(2026, time.July, 15)) {
			t.Errorf("row at %s predates the first buy", row.Date)
		}
	}
	if len(rows) == 0 {
		t.Fatal("expected rows for the held periods")
	}
}

func TestProject_LegacySellTreatment(t *testing.T) {
	terms := bondTerms()
	txs := []Transaction{
		NewBuy("b1", date.New(2025, time.July, 1), "BOND-A", Q(1000), M(1, "EUR"), M(0, "EUR")),
		NewSell("s1", date.New(2026, time.January, 15), "BOND-A", Q(1000), M(1, "EUR"), M(0, "EUR")),
	}

	legacy, err := Project(terms, txs, ProjectOptions{})
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	// Legacy behavior counts cumulative buys only: the sold position
	// still projects cash.
	if len(legacy) == 0 {
		t.Fatal("legacy projection should ignore sells")
	}

	corrected, err := Project(terms, txs, ProjectOptions{AccountForSells: true})
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	for _, row := range corrected {
		if row.Date.After(date.New(2026, time.January, 15)) {
			t.Errorf("row at %s projected after the position was fully sold", row.Date)
		}
	}
	if len(corrected) >= len(legacy) {
		t.Errorf("accounting for sells should shrink the schedule: %d vs %d rows", len(corrected), len(legacy))
	}
}

func TestProject_NoTransactionsNoRows(t *testing.T) {
	rows, err := Project(bondTerms(), nil, ProjectOptions{})
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows without holdings, got %d", len(rows))
	}
}

func TestProject_Idempotent(t *testing.T) {
	terms := bondTerms()
	terms.Amortization = Linear
	txs := []Transaction{
		NewBuy("b1", date.New(2025, time.July, 1), "BOND-A", Q(1000), M(0.97, "EUR"), M(5, "EUR")),
	}

	encode := func() []byte {
		rows, err := Project(terms, txs, ProjectOptions{})
		if err != nil {
			t.Fatalf("Project() error = %v", err)
		}
		b, err := json.Marshal(rows)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		return b
	}

	if first, second := encode(), encode(); !bytes.Equal(first, second) {
		t.Error("two projections of identical inputs must be byte-identical")
	}
}
