// Package trading executes buy and sell orders against the account
// store and the ledger.
//
// Known gap, kept on purpose: sells never check existing holdings, so
// unrestricted short selling is possible. Requests are also handled
// independently with no cross-request locking, so two concurrent buys
// can both pass the funds check against the same balance.
package trading

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atharvakonge/trading-competition/internal/market"
	"github.com/atharvakonge/trading-competition/internal/models"
	"github.com/atharvakonge/trading-competition/internal/store"
)

var (
	// ErrInvalidQuantity is returned when the quantity form field is
	// not a positive whole number.
	ErrInvalidQuantity = errors.New("Quantity must be a positive whole number.")
	// ErrInsufficientFunds is returned when a buy costs more than the
	// user's cash balance.
	ErrInsufficientFunds = errors.New("Insufficient balance for this trade.")
	// ErrUnknownAction is returned for an action other than buy or sell.
	ErrUnknownAction = errors.New("Unknown trade action.")
)

// IsUserError reports whether err should be shown to the user as a
// validation message rather than treated as a server failure.
func IsUserError(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrUnknownAction)
}

// Executor wires trade execution to its stores.
type Executor struct {
	accounts store.Accounts
	ledger   store.Ledger
	market   *market.Service
}

// NewExecutor builds an Executor.
func NewExecutor(accounts store.Accounts, ledger store.Ledger, mkt *market.Service) *Executor {
	return &Executor{accounts: accounts, ledger: ledger, market: mkt}
}

// Execute runs one buy or sell for user. quantityField is the raw form
// value; it must parse as a positive integer or nothing changes. One
// price snapshot is taken up front and used for both the cash movement
// and the ledger record.
func (e *Executor) Execute(ctx context.Context, user models.User, action, quantityField string) (string, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(quantityField))
	if err != nil || qty <= 0 {
		return "", ErrInvalidQuantity
	}

	price, err := e.market.Current(ctx, market.DefaultTicker)
	if err != nil {
		return "", err
	}
	total := price * float64(qty)

	switch action {
	case models.SideBuy:
		if user.CashBalance < total {
			return "", ErrInsufficientFunds
		}
		if err := e.accounts.AdjustBalance(ctx, user.ID, -total); err != nil {
			return "", err
		}
	case models.SideSell:
		// No holdings check: short selling is allowed.
		if err := e.accounts.AdjustBalance(ctx, user.ID, total); err != nil {
			return "", err
		}
	default:
		return "", ErrUnknownAction
	}

	_, err = e.ledger.AppendTrade(ctx, models.Trade{
		UserID:   user.ID,
		Ticker:   market.DefaultTicker,
		Side:     action,
		Quantity: qty,
		Price:    price,
	})
	if err != nil {
		return "", err
	}

	verb := "Buy"
	if action == models.SideSell {
		verb = "Sell"
	}
	return fmt.Sprintf("%s order executed: %d shares of %s at $%.2f", verb, qty, market.DefaultTicker, price), nil
}
