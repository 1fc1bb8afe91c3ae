package valuation

import (
	"math"
	"testing"

	"github.com/atharvakonge/trading-competition/internal/models"
)

func buy(qty int, price float64) models.Trade {
	return models.Trade{Ticker: "AA", Side: models.SideBuy, Quantity: qty, Price: price}
}

func sell(qty int, price float64) models.Trade {
	return models.Trade{Ticker: "AA", Side: models.SideSell, Quantity: qty, Price: price}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNetQuantity(t *testing.T) {
	trades := []models.Trade{buy(10, 100), sell(3, 105), buy(2, 98), sell(4, 101)}

	if got := NetQuantity(trades); got != 5 {
		t.Errorf("Expected net quantity 5, got %d", got)
	}

	if got := NetQuantity(nil); got != 0 {
		t.Errorf("Expected net quantity 0 for empty ledger, got %d", got)
	}
}

func TestNetLiquidationValue_NoTrades(t *testing.T) {
	// With zero trades, portfolio value is exactly the cash balance.
	if got := NetLiquidationValue(10000.0, 0, 123.45); got != 10000.0 {
		t.Errorf("Expected 10000.0, got %.2f", got)
	}
}

func TestNetLiquidationValue_LongPosition(t *testing.T) {
	// 10000 cash, buy 10 at 100: cash 9000, net +5 after selling 5.
	if got := NetLiquidationValue(9500.0, 5, 100.0); got != 10000.0 {
		t.Errorf("Expected 10000.0, got %.2f", got)
	}
}

func TestOpenPosition_BlendedAverage(t *testing.T) {
	// buy 10@100 + buy 10@110 -> avg (1000+1100)/20 = 105; at 120 the
	// unrealized PnL is 20*(120-105) = 300.
	trades := []models.Trade{buy(10, 100), buy(10, 110)}

	positions := OpenPosition("AA", trades, 120.0)
	if len(positions) != 1 {
		t.Fatalf("Expected 1 position, got %d", len(positions))
	}
	p := positions[0]
	if p.NetQty != 20 {
		t.Errorf("Expected net qty 20, got %d", p.NetQty)
	}
	if !almostEqual(p.AvgCost, 105.0) {
		t.Errorf("Expected avg cost 105.0, got %.4f", p.AvgCost)
	}
	if !almostEqual(p.UnrealizedPnl, 300.0) {
		t.Errorf("Expected unrealized PnL 300.0, got %.4f", p.UnrealizedPnl)
	}
}

func TestOpenPosition_PartialSell(t *testing.T) {
	// buy 10@100, sell 5@100: net +5 at avg cost 100.
	trades := []models.Trade{buy(10, 100), sell(5, 100)}

	positions := OpenPosition("AA", trades, 104.0)
	if len(positions) != 1 {
		t.Fatalf("Expected 1 position, got %d", len(positions))
	}
	p := positions[0]
	if p.NetQty != 5 {
		t.Errorf("Expected net qty 5, got %d", p.NetQty)
	}
	if !almostEqual(p.AvgCost, 100.0) {
		t.Errorf("Expected avg cost 100.0, got %.4f", p.AvgCost)
	}
	if !almostEqual(p.UnrealizedPnl, 5*(104.0-100.0)) {
		t.Errorf("Expected unrealized PnL 20.0, got %.4f", p.UnrealizedPnl)
	}
}

func TestOpenPosition_FlatBookIsEmpty(t *testing.T) {
	// buy 10@100 then sell 10@90: flat, so no position record even
	// though the round trip realized a loss.
	trades := []models.Trade{buy(10, 100), sell(10, 90)}

	if positions := OpenPosition("AA", trades, 95.0); len(positions) != 0 {
		t.Errorf("Expected empty positions for flat book, got %+v", positions)
	}

	if positions := OpenPosition("AA", nil, 95.0); len(positions) != 0 {
		t.Errorf("Expected empty positions for empty ledger, got %+v", positions)
	}
}

func TestOpenPosition_NetShort(t *testing.T) {
	// sell 10@100, buy 4@90: net -6, avg (1000-360)/6, pnl 6*(avg-price).
	trades := []models.Trade{sell(10, 100), buy(4, 90)}

	positions := OpenPosition("AA", trades, 95.0)
	if len(positions) != 1 {
		t.Fatalf("Expected 1 position, got %d", len(positions))
	}
	p := positions[0]
	if p.NetQty != -6 {
		t.Errorf("Expected net qty -6, got %d", p.NetQty)
	}
	wantAvg := (1000.0 - 360.0) / 6.0
	if !almostEqual(p.AvgCost, wantAvg) {
		t.Errorf("Expected avg cost %.4f, got %.4f", wantAvg, p.AvgCost)
	}
	wantPnl := 6.0 * (wantAvg - 95.0)
	if !almostEqual(p.UnrealizedPnl, wantPnl) {
		t.Errorf("Expected unrealized PnL %.4f, got %.4f", wantPnl, p.UnrealizedPnl)
	}
}

func TestOpenPosition_OrderInsensitive(t *testing.T) {
	a := []models.Trade{buy(10, 100), sell(3, 105), buy(2, 98)}
	b := []models.Trade{buy(2, 98), buy(10, 100), sell(3, 105)}

	pa := OpenPosition("AA", a, 101.0)
	pb := OpenPosition("AA", b, 101.0)
	if len(pa) != 1 || len(pb) != 1 {
		t.Fatalf("Expected one position from each ordering")
	}
	if pa[0] != pb[0] {
		t.Errorf("Position depends on trade order: %+v vs %+v", pa[0], pb[0])
	}
}
