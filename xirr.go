package invest

import (
	"math"

	"github.com/ssolera/invest/date"
)

// Flow is a dated cash amount, negative for money paid out (a buy) and
// positive for money received (a sell, coupon, or amortization).
type Flow struct {
	Amount float64
	Date   date.Date
}

const (
	// xirrMaxIterations bounds Newton-Raphson per seed.
	xirrMaxIterations = 200
	// xirrStepTolerance accepts a seed once successive iterates converge.
	xirrStepTolerance = 1e-9
	// xirrDerivativeFloor aborts a seed when the derivative vanishes.
	xirrDerivativeFloor = 1e-12
	// xirrResidualTolerance accepts a root only if the NPV there is ~0.
	xirrResidualTolerance = 1e-4
)

// xirrSeeds are the starting rates tried in order. Newton-Raphson on
// NPV can diverge or land on a root with no economic meaning from a
// single guess, so the solver restarts from each seed until one
// converges to a rate whose NPV is ~0.
var xirrSeeds = [...]float64{0.05, 0.1, 0.01, -0.1, 0.2}

// XIRR computes the annualized internal rate of return of a set of
// irregular cash flows. It requires at least two flows with at least
// one strictly positive and one strictly negative amount; otherwise,
// and when no seed converges, it reports ok == false. An indeterminate
// rate is a valid business outcome, never an error.
func XIRR(flows []Flow) (rate float64, ok bool) {
	if len(flows) < 2 {
		return 0, false
	}
	hasPositive, hasNegative := false, false
	for _, f := range flows {
		if f.Amount > 0 {
			hasPositive = true
		}
		if f.Amount < 0 {
			hasNegative = true
		}
	}
	if !hasPositive || !hasNegative {
		// without a sign change the IRR is undefined
		return 0, false
	}

	// Normalize dates to year fractions from the earliest flow.
	earliest := flows[0].Date
	for _, f := range flows[1:] {
		if f.Date.Before(earliest) {
			earliest = f.Date
		}
	}
	years := make([]float64, len(flows))
	amounts := make([]float64, len(flows))
	for i, f := range flows {
		years[i] = float64(date.DaysBetween(earliest, f.Date)) / 365
		amounts[i] = f.Amount
	}

	npv := func(r float64) float64 {
		var sum float64
		for i, a := range amounts {
			sum += a / math.Pow(1+r, years[i])
		}
		return sum
	}
	// closed-form derivative of npv with respect to the rate
	dnpv := func(r float64) float64 {
		var sum float64
		for i, a := range amounts {
			sum -= a * years[i] / math.Pow(1+r, years[i]+1)
		}
		return sum
	}

	for _, seed := range xirrSeeds {
		if rate, ok := newton(seed, npv, dnpv); ok {
			return rate, true
		}
	}
	return 0, false
}

// newton runs Newton-Raphson from one seed and reports whether it
// converged to a finite rate with a near-zero NPV.
func newton(seed float64, f, df func(float64) float64) (float64, bool) {
	rate := seed
	for i := 0; i < xirrMaxIterations; i++ {
		derivative := df(rate)
		if math.Abs(derivative) < xirrDerivativeFloor {
			return 0, false // numerically unstable from this seed
		}
		next := rate - f(rate)/derivative
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return 0, false
		}
		if math.Abs(next-rate) < xirrStepTolerance {
			rate = next
			break
		}
		rate = next
	}
	if math.Abs(f(rate)) >= xirrResidualTolerance {
		return 0, false
	}
	return rate, true
}
