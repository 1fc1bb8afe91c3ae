package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/atharvakonge/trading-competition/internal/models"
)

// SQL driver names accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// SQLStore implements Store on top of database/sql. Queries are
// written with ? placeholders and rebound for postgres.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// Open connects with the given driver ("postgres" or "sqlite") and DSN.
func Open(driver, dsn string) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if driver == DriverPostgres {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	} else {
		// modernc sqlite serializes writes; a single connection avoids
		// table-lock errors under concurrent requests.
		db.SetMaxOpenConns(1)
	}

	return &SQLStore{db: db, driver: driver}, nil
}

// Close closes the underlying pool.
func (s *SQLStore) Close() error { return s.db.Close() }

var postgresSchema = []string{
	`DROP TABLE IF EXISTS trades`,
	`DROP TABLE IF EXISTS ticker_prices`,
	`DROP TABLE IF EXISTS users`,
	`CREATE TABLE users (
		id            SERIAL PRIMARY KEY,
		username      TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		cash_balance  DOUBLE PRECISION NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE trades (
		id         SERIAL PRIMARY KEY,
		user_id    INTEGER NOT NULL REFERENCES users(id),
		ticker     TEXT NOT NULL,
		side       TEXT NOT NULL,
		quantity   INTEGER NOT NULL,
		price      DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE ticker_prices (
		id     SERIAL PRIMARY KEY,
		ticker TEXT UNIQUE NOT NULL,
		price  DOUBLE PRECISION NOT NULL
	)`,
}

var sqliteSchema = []string{
	`DROP TABLE IF EXISTS trades`,
	`DROP TABLE IF EXISTS ticker_prices`,
	`DROP TABLE IF EXISTS users`,
	`CREATE TABLE users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		cash_balance  REAL NOT NULL,
		created_at    TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE trades (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    INTEGER NOT NULL REFERENCES users(id),
		ticker     TEXT NOT NULL,
		side       TEXT NOT NULL,
		quantity   INTEGER NOT NULL,
		price      REAL NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE ticker_prices (
		id     INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker TEXT UNIQUE NOT NULL,
		price  REAL NOT NULL
	)`,
}

// Reset drops and recreates the schema. The simulator keeps no state
// across restarts, so this runs on every boot.
func (s *SQLStore) Reset(ctx context.Context) error {
	schema := sqliteSchema
	if s.driver == DriverPostgres {
		schema = postgresSchema
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema reset: %w", err)
		}
	}
	return nil
}

// rebind converts ? placeholders to $1, $2, ... for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// insertRow runs an INSERT and returns the generated id. lib/pq has no
// LastInsertId, so postgres goes through RETURNING.
func (s *SQLStore) insertRow(ctx context.Context, query string, args ...any) (int, error) {
	if s.driver == DriverPostgres {
		var id int
		err := s.db.QueryRowContext(ctx, s.rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (s *SQLStore) CreateUser(ctx context.Context, username, passwordHash string, cash float64) (models.User, error) {
	u := models.User{
		Username:     username,
		PasswordHash: passwordHash,
		CashBalance:  cash,
		CreatedAt:    time.Now().UTC(),
	}
	id, err := s.insertRow(ctx,
		`INSERT INTO users (username, password_hash, cash_balance, created_at) VALUES (?, ?, ?, ?)`,
		u.Username, u.PasswordHash, u.CashBalance, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	u.ID = id
	return u, nil
}

func (s *SQLStore) userBy(ctx context.Context, where string, arg any) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT id, username, password_hash, cash_balance, created_at FROM users WHERE `+where),
		arg,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CashBalance, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *SQLStore) UserByName(ctx context.Context, username string) (models.User, error) {
	return s.userBy(ctx, `username = ?`, username)
}

func (s *SQLStore) UserByID(ctx context.Context, id int) (models.User, error) {
	return s.userBy(ctx, `id = ?`, id)
}

func (s *SQLStore) Users(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, password_hash, cash_balance, created_at FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CashBalance, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLStore) AdjustBalance(ctx context.Context, userID int, delta float64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE users SET cash_balance = cash_balance + ? WHERE id = ?`),
		delta, userID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) AppendTrade(ctx context.Context, t models.Trade) (models.Trade, error) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	id, err := s.insertRow(ctx,
		`INSERT INTO trades (user_id, ticker, side, quantity, price, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Ticker, t.Side, t.Quantity, t.Price, t.CreatedAt,
	)
	if err != nil {
		return models.Trade{}, err
	}
	t.ID = id
	return t, nil
}

func (s *SQLStore) TradesByUser(ctx context.Context, userID int, ticker string) ([]models.Trade, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, user_id, ticker, side, quantity, price, created_at
		FROM trades
		WHERE user_id = ? AND ticker = ?
		ORDER BY created_at DESC, id DESC`),
		userID, ticker,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trades := make([]models.Trade, 0)
	for rows.Next() {
		var t models.Trade
		if err := rows.Scan(&t.ID, &t.UserID, &t.Ticker, &t.Side, &t.Quantity, &t.Price, &t.CreatedAt); err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (s *SQLStore) Price(ctx context.Context, ticker string) (float64, bool, error) {
	var price float64
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT price FROM ticker_prices WHERE ticker = ?`), ticker,
	).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return price, true, nil
}

func (s *SQLStore) SetPrice(ctx context.Context, ticker string, price float64) error {
	// Upsert syntax shared by postgres and sqlite.
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO ticker_prices (ticker, price) VALUES (?, ?)
		ON CONFLICT (ticker) DO UPDATE SET price = excluded.price`),
		ticker, price,
	)
	return err
}
