// Package store holds the shared state every request can reach: user
// accounts, the append-only trade ledger, and the current instrument
// prices. Handlers receive these interfaces so tests can substitute
// the in-memory implementation.
package store

import (
	"context"
	"errors"

	"github.com/atharvakonge/trading-competition/internal/models"
)

var (
	// ErrNotFound is returned when a user lookup matches nothing.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUsername is returned by CreateUser when the
	// username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")
)

// Accounts is the user-record store.
type Accounts interface {
	CreateUser(ctx context.Context, username, passwordHash string, cash float64) (models.User, error)
	UserByName(ctx context.Context, username string) (models.User, error)
	UserByID(ctx context.Context, id int) (models.User, error)
	Users(ctx context.Context) ([]models.User, error)
	// AdjustBalance adds delta (negative to debit) to the user's cash
	// in a single statement.
	AdjustBalance(ctx context.Context, userID int, delta float64) error
}

// Ledger is the append-only trade history.
type Ledger interface {
	// AppendTrade stores t and returns it with ID and CreatedAt set.
	AppendTrade(ctx context.Context, t models.Trade) (models.Trade, error)
	// TradesByUser returns the user's trades for one ticker, newest first.
	TradesByUser(ctx context.Context, userID int, ticker string) ([]models.Trade, error)
}

// Prices holds the current price per ticker.
type Prices interface {
	// Price returns the stored price, or ok=false when the ticker has
	// never been priced.
	Price(ctx context.Context, ticker string) (price float64, ok bool, err error)
	SetPrice(ctx context.Context, ticker string, price float64) error
}

// Store is the full state surface the server is wired with.
type Store interface {
	Accounts
	Ledger
	Prices
}
