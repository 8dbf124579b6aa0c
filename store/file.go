package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/rustyeddy/papertrader/journal"
	"github.com/rustyeddy/papertrader/portfolio"
)

const (
	portfolioSuffix = "_portfolio.txt"
	ledgerSuffix    = "_transactions.txt"
)

// FileStore keeps each identity in two text files under one directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Dir() string { return s.dir }

// key maps an identity to a file name prefix. Path escaping is one-to-one
// and never yields a path separator.
func key(identity string) string {
	return url.PathEscape(identity)
}

func (s *FileStore) PortfolioPath(identity string) string {
	return filepath.Join(s.dir, key(identity)+portfolioSuffix)
}

func (s *FileStore) LedgerPath(identity string) string {
	return filepath.Join(s.dir, key(identity)+ledgerSuffix)
}

func (s *FileStore) LoadPortfolio(ctx context.Context, identity string) (*portfolio.Portfolio, error) {
	if err := checkIdentity(identity); err != nil {
		return nil, err
	}

	f, err := os.Open(s.PortfolioPath(identity))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load portfolio %q: %w", identity, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load portfolio %q: %w", identity, err)
	}
	defer f.Close()

	p, err := DecodePortfolio(f)
	if err != nil {
		return nil, corrupt("portfolio", identity, err)
	}
	return p, nil
}

func (s *FileStore) SavePortfolio(ctx context.Context, identity string, p *portfolio.Portfolio) error {
	if err := checkIdentity(identity); err != nil {
		return err
	}
	err := writeAtomic(s.PortfolioPath(identity), func(w io.Writer) error {
		return EncodePortfolio(w, p)
	})
	if err != nil {
		return fmt.Errorf("save portfolio %q: %w", identity, err)
	}
	return nil
}

func (s *FileStore) LoadLedger(ctx context.Context, identity string) (*journal.Ledger, error) {
	if err := checkIdentity(identity); err != nil {
		return nil, err
	}

	f, err := os.Open(s.LedgerPath(identity))
	if errors.Is(err, fs.ErrNotExist) {
		return journal.NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load ledger %q: %w", identity, err)
	}
	defer f.Close()

	l, err := journal.Decode(f)
	if err != nil {
		return nil, corrupt("ledger", identity, err)
	}
	return l, nil
}

func (s *FileStore) SaveLedger(ctx context.Context, identity string, l *journal.Ledger) error {
	if err := checkIdentity(identity); err != nil {
		return err
	}
	err := writeAtomic(s.LedgerPath(identity), func(w io.Writer) error {
		return journal.Encode(w, l)
	})
	if err != nil {
		return fmt.Errorf("save ledger %q: %w", identity, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// writeAtomic writes to a temp file beside path and renames it into place,
// so path holds either the old or the new content.
func writeAtomic(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
