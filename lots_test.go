package invest

import (
	"errors"
	"testing"
	"time"

	"github.com/ssolera/invest/date"
)

func TestMatch_FIFOOrdering(t *testing.T) {
	// buy 100@10 then buy 100@12 then sell 150@15: the sale must
	// consume the full first lot and half of the second.
	txs := []Transaction{
		NewBuy("b1", date.New(2025, time.January, 10), "BOND-A", Q(100), M(10, "EUR"), M(0, "EUR")),
		NewBuy("b2", date.New(2025, time.February, 10), "BOND-A", Q(100), M(12, "EUR"), M(0, "EUR")),
		NewSell("s1", date.New(2025, time.March, 10), "BOND-A", Q(150), M(15, "EUR"), M(0, "EUR")),
	}

	result, err := Match(txs)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	if len(result.Realized) != 2 {
		t.Fatalf("expected 2 realized records, got %d", len(result.Realized))
	}

	first := result.Realized[0]
	if first.LotID != "b1" || !first.Quantity.Equal(Q(100)) {
		t.Errorf("first record should consume 100 units of b1, got %s units of %s", first.Quantity, first.LotID)
	}
	if !first.Gain.Equal(M(500, "EUR")) { // (15-10)*100
		t.Errorf("first gain = %s, want 500", first.Gain)
	}
	if !first.GainPercent.Equal(50) {
		t.Errorf("first gain%% = %s, want 50%%", first.GainPercent)
	}

	second := result.Realized[1]
	if second.LotID != "b2" || !second.Quantity.Equal(Q(50)) {
		t.Errorf("second record should consume 50 units of b2, got %s units of %s", second.Quantity, second.LotID)
	}
	if !second.Gain.Equal(M(150, "EUR")) { // (15-12)*50
		t.Errorf("second gain = %s, want 150", second.Gain)
	}

	if result.Position == nil {
		t.Fatal("expected an open position")
	}
	if !result.Position.Quantity.Equal(Q(50)) || !result.Position.BuyPrice.Equal(M(12, "EUR")) {
		t.Errorf("open position = %s @ %s, want 50 @ 12", result.Position.Quantity, result.Position.BuyPrice)
	}
	if result.Position.Date != date.New(2025, time.February, 10) {
		t.Errorf("open position date = %s, want the remaining lot's date", result.Position.Date)
	}
}

func TestMatch_CommissionInCostBasis(t *testing.T) {
	// unit cost = price + commission/quantity
	txs := []Transaction{
		NewBuy("b1", date.New(2025, time.January, 10), "BOND-A", Q(100), M(10, "EUR"), M(50, "EUR")),
		NewSell("s1", date.New(2025, time.February, 10), "BOND-A", Q(100), M(12, "EUR"), M(100, "EUR")),
	}

	result, err := Match(txs)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(result.Realized) != 1 {
		t.Fatalf("expected 1 realized record, got %d", len(result.Realized))
	}

	gain := result.Realized[0]
	// proceeds (12 - 100/100)*100 = 1100, cost (10 + 50/100)*100 = 1050
	if !gain.Gain.Equal(M(50, "EUR")) {
		t.Errorf("gain = %s, want 50", gain.Gain)
	}
	if !gain.BuyCommission.Equal(M(50, "EUR")) {
		t.Errorf("buy commission attributed = %s, want 50", gain.BuyCommission)
	}
	if !gain.SellCommission.Equal(M(100, "EUR")) {
		t.Errorf("sell commission attributed = %s, want 100", gain.SellCommission)
	}
}

func TestMatch_Conservation(t *testing.T) {
	txs := []Transaction{
		NewBuy("b1", date.New(2025, time.January, 5), "BOND-A", Q(30), M(10, "EUR"), M(1, "EUR")),
		NewBuy("b2", date.New(2025, time.January, 20), "BOND-A", Q(70), M(11, "EUR"), M(1, "EUR")),
		NewSell("s1", date.New(2025, time.February, 1), "BOND-A", Q(45), M(12, "EUR"), M(1, "EUR")),
		NewBuy("b3", date.New(2025, time.March, 1), "BOND-A", Q(25), M(9, "EUR"), M(1, "EUR")),
		NewSell("s2", date.New(2025, time.April, 1), "BOND-A", Q(10), M(13, "EUR"), M(1, "EUR")),
	}

	result, err := Match(txs)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	realized := Q(0)
	for _, r := range result.Realized {
		realized = realized.Add(r.Quantity)
	}
	open := Q(0)
	for _, lot := range result.Open {
		open = open.Add(lot.Quantity)
	}
	bought := Q(30 + 70 + 25)
	if !realized.Add(open).Equal(bought) {
		t.Errorf("conservation broken: realized %s + open %s != bought %s", realized, open, bought)
	}
	if !result.Position.Quantity.Equal(open) {
		t.Errorf("aggregate position %s != sum of open lots %s", result.Position.Quantity, open)
	}
}

func TestMatch_Oversell(t *testing.T) {
	txs := []Transaction{
		NewBuy("b1", date.New(2025, time.January, 5), "BOND-A", Q(100), M(10, "EUR"), M(0, "EUR")),
		NewSell("s1", date.New(2025, time.February, 5), "BOND-A", Q(150), M(12, "EUR"), M(0, "EUR")),
	}

	result, err := Match(txs)
	if err == nil {
		t.Fatal("expected an error for an oversell")
	}

	var insufficient *InsufficientPositionError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected *InsufficientPositionError, got %T: %v", err, err)
	}
	if insufficient.TransactionID != "s1" || insufficient.Instrument != "BOND-A" {
		t.Errorf("error should identify the sell and the instrument, got %+v", insufficient)
	}
	if !insufficient.Unfilled.Equal(Q(50)) {
		t.Errorf("unfilled = %s, want 50", insufficient.Unfilled)
	}
	if len(result.Realized) != 0 || result.Position != nil {
		t.Error("an oversell must not produce a partial result")
	}
}

func TestMatch_SameDateKeepsInputOrder(t *testing.T) {
	on := date.New(2025, time.June, 1)
	txs := []Transaction{
		NewBuy("b1", on, "BOND-A", Q(10), M(10, "EUR"), M(0, "EUR")),
		NewSell("s1", on, "BOND-A", Q(10), M(11, "EUR"), M(0, "EUR")),
	}

	result, err := Match(txs)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(result.Realized) != 1 {
		t.Fatalf("same-date buy must be consumable by a same-date sell, got %d records", len(result.Realized))
	}
	if result.Position != nil {
		t.Errorf("expected a flat position, got %s", result.Position.Quantity)
	}
}

func TestMatch_RejectsMixedStreams(t *testing.T) {
	t.Run("instruments", func(t *testing.T) {
		txs := []Transaction{
			NewBuy("b1", date.New(2025, time.January, 5), "BOND-A", Q(10), M(10, "EUR"), M(0, "EUR")),
			NewBuy("b2", date.New(2025, time.January, 6), "BOND-B", Q(10), M(10, "EUR"), M(0, "EUR")),
		}
		if _, err := Match(txs); err == nil {
			t.Error("expected an error for mixed instruments")
		}
	})
	t.Run("currencies", func(t *testing.T) {
		txs := []Transaction{
			NewBuy("b1", date.New(2025, time.January, 5), "BOND-A", Q(10), M(10, "EUR"), M(0, "EUR")),
			NewBuy("b2", date.New(2025, time.January, 6), "BOND-A", Q(10), M(10, "USD"), M(0, "USD")),
		}
		if _, err := Match(txs); err == nil {
			t.Error("expected an error for mixed currencies")
		}
	})
}

func TestMatch_Empty(t *testing.T) {
	result, err := Match(nil)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if result.Position != nil || len(result.Open) != 0 || len(result.Realized) != 0 {
		t.Errorf("empty stream should yield an empty result, got %+v", result)
	}
}

func TestMatch_WeightedAverages(t *testing.T) {
	txs := []Transaction{
		NewBuy("b1", date.New(2025, time.January, 5), "BOND-A", Q(100), M(10, "EUR"), M(10, "EUR")),
		NewBuy("b2", date.New(2025, time.February, 5), "BOND-A", Q(300), M(14, "EUR"), M(30, "EUR")),
	}

	result, err := Match(txs)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	// weighted price (100*10 + 300*14)/400 = 13; commission (10+30)/400 = 0.1
	if !result.Position.BuyPrice.Equal(M(13, "EUR")) {
		t.Errorf("weighted price = %s, want 13", result.Position.BuyPrice)
	}
	if !result.Position.BuyCommission.Equal(M(0.1, "EUR")) {
		t.Errorf("weighted commission = %s, want 0.1", result.Position.BuyCommission)
	}
	if result.Position.Date != date.New(2025, time.January, 5) {
		t.Errorf("position date = %s, want the oldest lot's date", result.Position.Date)
	}
}
