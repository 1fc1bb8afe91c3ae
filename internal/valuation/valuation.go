// Package valuation folds a user's trade ledger into position and
// portfolio numbers. Everything here is pure: the ledger is canonical
// and valuations are recomputed from it on every read, so there is no
// derived state to drift.
package valuation

import "github.com/atharvakonge/trading-competition/internal/models"

// NetQuantity is the signed share count across trades: buys add,
// sells subtract. Order of trades does not matter.
func NetQuantity(trades []models.Trade) int {
	net := 0
	for _, t := range trades {
		if t.Side == models.SideBuy {
			net += t.Quantity
		} else {
			net -= t.Quantity
		}
	}
	return net
}

// NetLiquidationValue is cash plus the position marked at the current
// price. With no trades it is exactly the cash balance.
func NetLiquidationValue(cash float64, netQty int, currentPrice float64) float64 {
	return cash + float64(netQty)*currentPrice
}

// OpenPosition folds trades for one ticker into at most one position
// record. A flat book (net quantity zero) yields no record no matter
// the gross volume traded.
//
// The average cost is a blended basis over the whole history, not
// FIFO/LIFO lot tracking: sells reduce the basis at their own price,
// so realized P&L is never split out.
func OpenPosition(ticker string, trades []models.Trade, currentPrice float64) []models.Position {
	var (
		totalBuyQty    int
		totalSellQty   int
		totalBuyValue  float64
		totalSellValue float64
	)
	for _, t := range trades {
		if t.Side == models.SideBuy {
			totalBuyQty += t.Quantity
			totalBuyValue += float64(t.Quantity) * t.Price
		} else {
			totalSellQty += t.Quantity
			totalSellValue += float64(t.Quantity) * t.Price
		}
	}

	netQty := totalBuyQty - totalSellQty
	if netQty == 0 {
		return nil
	}

	var avgCost, pnl float64
	if netQty > 0 {
		avgCost = (totalBuyValue - totalSellValue) / float64(netQty)
		pnl = float64(netQty) * (currentPrice - avgCost)
	} else {
		avgCost = (totalSellValue - totalBuyValue) / float64(-netQty)
		pnl = float64(-netQty) * (avgCost - currentPrice)
	}

	return []models.Position{{
		Ticker:        ticker,
		NetQty:        netQty,
		AvgCost:       avgCost,
		CurrentPrice:  currentPrice,
		UnrealizedPnl: pnl,
	}}
}
