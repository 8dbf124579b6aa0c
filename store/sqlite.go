package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/papertrader/internal/id"
	"github.com/rustyeddy/papertrader/journal"
	"github.com/rustyeddy/papertrader/portfolio"
)

// SQLiteStore keeps every identity in one SQLite database. Each save runs
// in a single transaction that replaces the identity's rows.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return newSQLiteStore(db), nil
}

func newSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) LoadPortfolio(ctx context.Context, identity string) (*portfolio.Portfolio, error) {
	if err := checkIdentity(identity); err != nil {
		return nil, err
	}

	var cash float64
	err := s.db.QueryRowContext(ctx,
		`SELECT cash FROM portfolios WHERE identity = ?`, identity).Scan(&cash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load portfolio %q: %w", identity, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load portfolio %q: %w", identity, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT symbol, quantity FROM holdings WHERE identity = ?`, identity)
	if err != nil {
		return nil, fmt.Errorf("load holdings %q: %w", identity, err)
	}
	defer rows.Close()

	holdings := map[string]int{}
	for rows.Next() {
		var (
			sym string
			qty int
		)
		if err := rows.Scan(&sym, &qty); err != nil {
			return nil, fmt.Errorf("load holdings %q: %w", identity, err)
		}
		holdings[sym] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load holdings %q: %w", identity, err)
	}

	p, err := portfolio.Restore(cash, holdings)
	if err != nil {
		return nil, corrupt("portfolio", identity, err)
	}
	return p, nil
}

func (s *SQLiteStore) SavePortfolio(ctx context.Context, identity string, p *portfolio.Portfolio) error {
	if err := checkIdentity(identity); err != nil {
		return err
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO portfolios (identity, cash, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(identity) DO UPDATE SET cash = excluded.cash, updated_at = excluded.updated_at`,
			identity, p.Cash(), s.now().UTC(),
		)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM holdings WHERE identity = ?`, identity); err != nil {
			return err
		}
		for _, sym := range p.Symbols() {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO holdings (identity, symbol, quantity) VALUES (?, ?, ?)`,
				identity, sym, p.Quantity(sym),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save portfolio %q: %w", identity, err)
	}
	return nil
}

func (s *SQLiteStore) LoadLedger(ctx context.Context, identity string) (*journal.Ledger, error) {
	if err := checkIdentity(identity); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, symbol, quantity, price
		FROM trades
		WHERE identity = ?
		ORDER BY seq ASC`, identity)
	if err != nil {
		return nil, fmt.Errorf("load ledger %q: %w", identity, err)
	}
	defer rows.Close()

	l := journal.NewLedger()
	for n := 1; rows.Next(); n++ {
		var (
			kind string
			rec  journal.TradeRecord
		)
		if err := rows.Scan(&kind, &rec.Symbol, &rec.Quantity, &rec.Price); err != nil {
			return nil, fmt.Errorf("load ledger %q: %w", identity, err)
		}
		rec.Kind = journal.Kind(kind)
		if err := l.Record(rec); err != nil {
			return nil, corrupt("ledger", identity, fmt.Errorf("row %d: %w", n, err))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load ledger %q: %w", identity, err)
	}
	return l, nil
}

func (s *SQLiteStore) SaveLedger(ctx context.Context, identity string, l *journal.Ledger) error {
	if err := checkIdentity(identity); err != nil {
		return err
	}

	for i, t := range l.All() {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("save ledger %q: record %d: %w", identity, i+1, err)
		}
	}

	savedAt := s.now().UTC()
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM trades WHERE identity = ?`, identity); err != nil {
			return err
		}
		for i, t := range l.All() {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO trades
				(trade_id, identity, seq, kind, symbol, quantity, price, saved_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				id.New(), identity, i, string(t.Kind), t.Symbol, t.Quantity, t.Price, savedAt,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save ledger %q: %w", identity, err)
	}
	return nil
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
