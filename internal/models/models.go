package models

import "time"

// Trade sides as stored in the ledger.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// User represents a registered competitor.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CashBalance  float64   `json:"cash_balance"`
	CreatedAt    time.Time `json:"created_at"`
}

// Trade is one immutable ledger row. Trades are append-only and are
// never updated or deleted; positions are always refolded from them.
type Trade struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Ticker    string    `json:"ticker"`
	Side      string    `json:"side"` // "buy" or "sell"
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// Position is the single open-position record for one ticker.
type Position struct {
	Ticker        string  `json:"ticker"`
	NetQty        int     `json:"net_qty"`
	AvgCost       float64 `json:"avg_cost"`
	CurrentPrice  float64 `json:"current_price"`
	UnrealizedPnl float64 `json:"unrealized_pnl"`
}

// TickerQuote is what price endpoints return for one instrument.
type TickerQuote struct {
	Ticker string  `json:"ticker"`
	Price  float64 `json:"price"`
}

// LeaderboardEntry ranks one user by total portfolio value.
type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	Username       string  `json:"username"`
	PortfolioValue float64 `json:"portfolio_value"`
}
