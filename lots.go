package invest

import (
	"fmt"

	"github.com/ssolera/invest/date"
)

// Lot represents the unconsumed remainder of a single purchase.
// Created by a buy, reduced (never increased) by later sells,
// removed when its quantity reaches zero.
type Lot struct {
	TransactionID string    // the buy that opened the lot
	Date          date.Date // date of the opening buy
	Quantity      Quantity  // units remaining in the lot
	Price         Money     // unit price paid
	Commission    Money     // commission paid per unit
}

// UnitCost is the cost basis per unit: price plus proportional commission.
func (l Lot) UnitCost() Money { return l.Price.Add(l.Commission) }

// RealizedGain records the outcome of consuming part of one lot by one
// sell. A sell spanning several lots emits one record per lot.
type RealizedGain struct {
	LotID          string    // buy transaction that opened the consumed lot
	SellID         string    // sell transaction that consumed it
	Date           date.Date // date of the sell
	Quantity       Quantity  // units consumed from the lot
	BuyPrice       Money     // unit price of the consumed lot
	BuyCommission  Money     // buy commission attributed to the consumed units
	SellPrice      Money     // unit sell price
	SellCommission Money     // sell commission attributed to the consumed units
	Gain           Money
	GainPercent    Percent
}

// OpenPosition is the aggregate of all remaining lots of an instrument.
type OpenPosition struct {
	Quantity      Quantity
	BuyPrice      Money     // weighted average unit price
	BuyCommission Money     // weighted average commission per unit
	Date          date.Date // date of the oldest remaining lot
	Currency      string
}

// MatchResult is the outcome of FIFO-matching a transaction stream.
type MatchResult struct {
	Open     []Lot         // remaining lots, oldest first
	Position *OpenPosition // aggregate of Open, nil when flat
	Realized []RealizedGain
}

// Match processes the transaction stream of one instrument in FIFO
// order: each buy opens a lot, each sell consumes the oldest lots
// first. Transactions are sorted by ascending date, preserving input
// order for same-date transactions.
//
// A sell exceeding the tracked open quantity returns an
// *InsufficientPositionError and no result: an oversell is a
// data-integrity failure, not a shortable position.
func Match(transactions []Transaction) (MatchResult, error) {
	instrument, currency := "", ""
	for _, tx := range transactions {
		if err := tx.Validate(); err != nil {
			return MatchResult{}, err
		}
		if instrument == "" {
			instrument, currency = tx.Instrument, tx.Currency()
		}
		if tx.Instrument != instrument {
			return MatchResult{}, fmt.Errorf("cannot match transactions of %q and %q in one stream", instrument, tx.Instrument)
		}
		if c := tx.Currency(); c != "" && currency != "" && c != currency {
			return MatchResult{}, fmt.Errorf("cannot match %s and %s transactions for %q: convert before matching", currency, c, instrument)
		}
	}

	var queue []Lot
	var realized []RealizedGain

	for _, tx := range sortTransactions(transactions) {
		switch tx.Side {
		case Buy:
			queue = append(queue, Lot{
				TransactionID: tx.ID,
				Date:          tx.Date,
				Quantity:      tx.Quantity,
				Price:         tx.Price,
				Commission:    tx.Commission.Div(tx.Quantity),
			})
		case Sell:
			remaining := tx.Quantity
			sellCommissionPerUnit := tx.Commission.Div(tx.Quantity)
			netSellPrice := tx.Price.Sub(sellCommissionPerUnit)

			for remaining.IsPositive() && len(queue) > 0 {
				lot := &queue[0]
				consumed := remaining.Min(lot.Quantity)

				costBasis := lot.UnitCost().Mul(consumed)
				proceeds := netSellPrice.Mul(consumed)
				gain := proceeds.Sub(costBasis)

				var gainPercent Percent
				if !costBasis.IsZero() {
					gainPercent = Percent(gain.value.Div(costBasis.value).InexactFloat64() * 100)
				}

				realized = append(realized, RealizedGain{
					LotID:          lot.TransactionID,
					SellID:         tx.ID,
					Date:           tx.Date,
					Quantity:       consumed,
					BuyPrice:       lot.Price,
					BuyCommission:  lot.Commission.Mul(consumed),
					SellPrice:      tx.Price,
					SellCommission: sellCommissionPerUnit.Mul(consumed),
					Gain:           gain,
					GainPercent:    gainPercent,
				})

				remaining = remaining.Sub(consumed)
				lot.Quantity = lot.Quantity.Sub(consumed)
				if lot.Quantity.IsZero() {
					queue = queue[1:]
				}
			}

			if remaining.IsPositive() {
				return MatchResult{}, &InsufficientPositionError{
					Instrument:    instrument,
					TransactionID: tx.ID,
					Requested:     tx.Quantity,
					Unfilled:      remaining,
				}
			}
		}
	}

	return MatchResult{
		Open:     queue,
		Position: aggregatePosition(queue, currency),
		Realized: realized,
	}, nil
}

// aggregatePosition reduces the remaining lots to a single weighted
// average position. Per-lot detail stays available in MatchResult.Open
// for FIFO-accurate unrealized P&L downstream.
func aggregatePosition(open []Lot, currency string) *OpenPosition {
	if len(open) == 0 {
		return nil
	}

	total := Q(0)
	cost := M(0, currency)
	commission := M(0, currency)
	for _, lot := range open {
		total = total.Add(lot.Quantity)
		cost = cost.Add(lot.Price.Mul(lot.Quantity))
		commission = commission.Add(lot.Commission.Mul(lot.Quantity))
	}

	return &OpenPosition{
		Quantity:      total,
		BuyPrice:      cost.Div(total),
		BuyCommission: commission.Div(total),
		Date:          open[0].Date, // queue is FIFO: the head is the oldest
		Currency:      currency,
	}
}
