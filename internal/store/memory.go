package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/atharvakonge/trading-competition/internal/models"
)

// Memory is an in-memory Store used by tests.
type Memory struct {
	mu         sync.Mutex
	users      map[int]models.User
	byName     map[string]int
	trades     []models.Trade
	prices     map[string]float64
	nextUserID int
	nextTrade  int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:      make(map[int]models.User),
		byName:     make(map[string]int),
		prices:     make(map[string]float64),
		nextUserID: 1,
		nextTrade:  1,
	}
}

func (m *Memory) CreateUser(_ context.Context, username, passwordHash string, cash float64) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byName[username]; exists {
		return models.User{}, ErrDuplicateUsername
	}
	u := models.User{
		ID:           m.nextUserID,
		Username:     username,
		PasswordHash: passwordHash,
		CashBalance:  cash,
		CreatedAt:    time.Now().UTC(),
	}
	m.nextUserID++
	m.users[u.ID] = u
	m.byName[u.Username] = u.ID
	return u, nil
}

func (m *Memory) UserByName(_ context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byName[username]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return m.users[id], nil
}

func (m *Memory) UserByID(_ context.Context, id int) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) Users(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (m *Memory) AdjustBalance(_ context.Context, userID int, delta float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.CashBalance += delta
	m.users[userID] = u
	return nil
}

func (m *Memory) AppendTrade(_ context.Context, t models.Trade) (models.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t.ID = m.nextTrade
	m.nextTrade++
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	m.trades = append(m.trades, t)
	return t, nil
}

func (m *Memory) TradesByUser(_ context.Context, userID int, ticker string) ([]models.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	trades := make([]models.Trade, 0)
	// Appended in id order; walk backwards for newest first.
	for i := len(m.trades) - 1; i >= 0; i-- {
		t := m.trades[i]
		if t.UserID == userID && t.Ticker == ticker {
			trades = append(trades, t)
		}
	}
	return trades, nil
}

func (m *Memory) Price(_ context.Context, ticker string) (float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.prices[ticker]
	return p, ok, nil
}

func (m *Memory) SetPrice(_ context.Context, ticker string, price float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prices[ticker] = price
	return nil
}
