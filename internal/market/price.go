// Package market owns the synthetic instrument price. The price only
// moves when a client polls; there is no server-side ticker.
package market

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/atharvakonge/trading-competition/internal/store"
)

const (
	// DefaultTicker is the single tradeable instrument.
	DefaultTicker = "AA"
	// DefaultPrice seeds a ticker the first time it is read.
	DefaultPrice = 100.0

	// One fluctuation moves the price by a uniform draw in
	// [-maxMovePct, +maxMovePct], floored at priceFloor.
	maxMovePct = 0.005
	priceFloor = 0.01
)

// Service reads and nudges instrument prices through a store.Prices.
type Service struct {
	prices store.Prices

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// New returns a Service with a time-seeded random source.
func New(prices store.Prices) *Service {
	return NewWithRand(prices, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand lets tests pin the random source.
func NewWithRand(prices store.Prices, rng *rand.Rand) *Service {
	return &Service{prices: prices, rng: rng}
}

// Current returns the stored price for ticker, initializing it to
// DefaultPrice on first access.
func (s *Service) Current(ctx context.Context, ticker string) (float64, error) {
	price, ok, err := s.prices.Price(ctx, ticker)
	if err != nil {
		return 0, err
	}
	if ok {
		return price, nil
	}
	if err := s.prices.SetPrice(ctx, ticker, DefaultPrice); err != nil {
		return 0, err
	}
	return DefaultPrice, nil
}

// Fluctuate applies one random step to the ticker's price and persists
// the result. Each step is independent of prior ones; no history is kept.
func (s *Service) Fluctuate(ctx context.Context, ticker string) (float64, error) {
	price, err := s.Current(ctx, ticker)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	pct := (s.rng.Float64()*2 - 1) * maxMovePct
	s.mu.Unlock()

	next := price * (1 + pct)
	if next < priceFloor {
		next = priceFloor
	}
	if err := s.prices.SetPrice(ctx, ticker, next); err != nil {
		return 0, err
	}
	return next, nil
}
