// Package store persists a user's portfolio and trade ledger between
// sessions. Each identity owns two records: its portfolio and its ledger.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rustyeddy/papertrader/journal"
	"github.com/rustyeddy/papertrader/portfolio"
)

var (
	// ErrNotFound means no portfolio was ever saved for the identity.
	ErrNotFound = errors.New("no saved state")

	// ErrCorruptState means saved state exists but cannot be read back.
	ErrCorruptState = errors.New("corrupt state")

	ErrInvalidIdentity = errors.New("identity must not be empty")
)

// Store saves and loads per-identity state. Saves replace whatever was
// stored before for that identity.
type Store interface {
	// LoadPortfolio returns ErrNotFound for an identity with no saved state.
	LoadPortfolio(ctx context.Context, identity string) (*portfolio.Portfolio, error)
	SavePortfolio(ctx context.Context, identity string, p *portfolio.Portfolio) error

	// LoadLedger returns an empty ledger when none was saved.
	LoadLedger(ctx context.Context, identity string) (*journal.Ledger, error)
	SaveLedger(ctx context.Context, identity string, l *journal.Ledger) error

	Close() error
}

const (
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// Open returns the store named by kind: text files under dir, or a SQLite
// database at dbPath.
func Open(kind, dir, dbPath string) (Store, error) {
	switch kind {
	case KindFile, "":
		return NewFileStore(dir)
	case KindSQLite:
		return NewSQLite(dbPath)
	}
	return nil, fmt.Errorf("unknown store kind %q", kind)
}

func checkIdentity(identity string) error {
	if identity == "" {
		return ErrInvalidIdentity
	}
	return nil
}

func corrupt(what, identity string, err error) error {
	return fmt.Errorf("load %s %q: %w: %w", what, identity, ErrCorruptState, err)
}
