package invest

// PositionReport contains the FIFO-matched state of one instrument:
// the aggregate open position, the per-lot detail behind it, and the
// realized gains booked so far.
type PositionReport struct {
	Instrument string
	Position   *OpenPosition // nil when flat
	Lots       []Lot
	Realized   []RealizedGain
	TotalGain  Money
}

// CalculatePosition runs the lot matcher over one instrument and
// assembles its position report.
func (l *Ledger) CalculatePosition(instrument string) (*PositionReport, error) {
	result, err := l.Match(instrument)
	if err != nil {
		return nil, err
	}

	report := &PositionReport{
		Instrument: instrument,
		Position:   result.Position,
		Lots:       result.Open,
		Realized:   result.Realized,
	}
	for _, gain := range result.Realized {
		report.TotalGain = report.TotalGain.Add(gain.Gain)
	}
	return report, nil
}

// CashflowReport contains the projected schedule of one instrument and
// its totals per kind.
type CashflowReport struct {
	Instrument        string
	Rows              []CashflowRow
	TotalInterest     Money
	TotalAmortization Money
}

// CalculateCashflows projects one instrument's future cash rows and
// assembles its cashflow report. Instruments without declared terms
// yield an empty report.
func (l *Ledger) CalculateCashflows(instrument string, opts ProjectOptions) (*CashflowReport, error) {
	rows, err := l.Project(instrument, opts)
	if err != nil {
		return nil, err
	}

	report := &CashflowReport{Instrument: instrument, Rows: rows}
	for _, row := range rows {
		switch row.Kind {
		case Interest:
			report.TotalInterest = report.TotalInterest.Add(row.Amount)
		case Amortization:
			report.TotalAmortization = report.TotalAmortization.Add(row.Amount)
		}
	}
	return report, nil
}

// ReturnReport contains the annualized return of one instrument's cash
// flows. Indeterminate is true when no rate could be established,
// which is a valid outcome (not enough flows, or no sign change).
type ReturnReport struct {
	Instrument    string
	Flows         []Flow
	Rate          Percent
	Indeterminate bool
}

// CalculateReturn assembles one instrument's flows (transactions plus,
// optionally, its projected cashflows) and solves for the annualized
// rate of return.
func (l *Ledger) CalculateReturn(instrument string, includeProjected bool, opts ProjectOptions) (*ReturnReport, error) {
	var projected []CashflowRow
	if includeProjected {
		var err error
		projected, err = l.Project(instrument, opts)
		if err != nil {
			return nil, err
		}
	}

	flows := l.Flows(instrument, projected)
	rate, ok := XIRR(flows)
	return &ReturnReport{
		Instrument:    instrument,
		Flows:         flows,
		Rate:          Percent(rate * 100),
		Indeterminate: !ok,
	}, nil
}
