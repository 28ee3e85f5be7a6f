// Package renderer turns engine reports into markdown.
package renderer

import (
	"fmt"
	"strings"

	"github.com/ssolera/invest"
)

// Transaction renders a transaction to a one-line string.
func Transaction(tx invest.Transaction) string {
	switch tx.Side {
	case invest.Buy:
		return fmt.Sprintf("Bought %s of %s at %s", tx.Quantity, tx.Instrument, tx.Price)
	case invest.Sell:
		return fmt.Sprintf("Sold %s of %s at %s", tx.Quantity, tx.Instrument, tx.Price)
	default:
		return tx.Side.String()
	}
}

// Transactions renders a transaction list to a markdown table.
func Transactions(txs []invest.Transaction) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Transactions\n\n")
	fmt.Fprintln(&b, "| Date | Instrument | Side | Quantity | Price | Commission |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|")
	for _, tx := range txs {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			tx.Date, tx.Instrument, tx.Side, tx.Quantity, tx.Price, tx.Commission)
	}
	return b.String()
}

// PositionMarkdown renders a position report to markdown.
func PositionMarkdown(report *invest.PositionReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Position %s\n\n", report.Instrument)

	if report.Position == nil {
		fmt.Fprint(&b, "No open position.\n\n")
	} else {
		p := report.Position
		fmt.Fprintln(&b, "| Quantity | Avg Price | Avg Commission | Oldest Lot |")
		fmt.Fprintln(&b, "|---:|---:|---:|:---|")
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n\n", p.Quantity, p.BuyPrice, p.BuyCommission, p.Date)

		fmt.Fprint(&b, "## Open Lots\n\n")
		fmt.Fprintln(&b, "| Lot | Date | Quantity | Unit Cost |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|")
		for _, lot := range report.Lots {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", lot.TransactionID, lot.Date, lot.Quantity, lot.UnitCost())
		}
		fmt.Fprintln(&b)
	}

	if len(report.Realized) > 0 {
		fmt.Fprint(&b, "## Realized Gains\n\n")
		fmt.Fprintln(&b, "| Date | Lot | Quantity | Buy | Sell | Gain | Gain % |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|")
		for _, gain := range report.Realized {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
				gain.Date, gain.LotID, gain.Quantity, gain.BuyPrice, gain.SellPrice,
				gain.Gain.SignedString(), gain.GainPercent.SignedString())
		}
		fmt.Fprintf(&b, "| **Total** | | | | | **%s** | |\n", report.TotalGain.SignedString())
	}

	return b.String()
}

// CashflowMarkdown renders a cashflow report to markdown.
func CashflowMarkdown(report *invest.CashflowReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Projected Cashflows %s\n\n", report.Instrument)

	if len(report.Rows) == 0 {
		fmt.Fprint(&b, "No contractual schedule.\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| Date | Kind | Amount | Capital Residual | Description |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|:---|")
	for _, row := range report.Rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			row.Date, row.Kind, row.Amount, row.CapitalResidual, row.Description)
	}
	fmt.Fprintf(&b, "\nTotal interest: %s, total amortization: %s\n",
		report.TotalInterest, report.TotalAmortization)
	return b.String()
}

// ReturnMarkdown renders a return report to markdown.
func ReturnMarkdown(report *invest.ReturnReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Return %s\n\n", report.Instrument)

	fmt.Fprintln(&b, "| Date | Flow |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, flow := range report.Flows {
		fmt.Fprintf(&b, "| %s | %+.2f |\n", flow.Date, flow.Amount)
	}

	if report.Indeterminate {
		fmt.Fprint(&b, "\nAnnualized return: indeterminate (needs flows of both signs).\n")
	} else {
		fmt.Fprintf(&b, "\nAnnualized return: %s\n", report.Rate.SignedString())
	}
	return b.String()
}
