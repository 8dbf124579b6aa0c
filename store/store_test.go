package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/papertrader/journal"
	"github.com/rustyeddy/papertrader/portfolio"
)

func newTestFileStore(t *testing.T) Store {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var backends = []struct {
	name string
	open func(t *testing.T) Store
}{
	{KindFile, newTestFileStore},
	{KindSQLite, newTestSQLite},
}

func TestStores(t *testing.T) {
	t.Parallel()

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			t.Parallel()

			t.Run("missing portfolio is not found", func(t *testing.T) {
				s := b.open(t)
				_, err := s.LoadPortfolio(context.Background(), "nobody")
				assert.ErrorIs(t, err, ErrNotFound)
				assert.NotErrorIs(t, err, ErrCorruptState)
			})

			t.Run("missing ledger is empty", func(t *testing.T) {
				s := b.open(t)
				l, err := s.LoadLedger(context.Background(), "nobody")
				require.NoError(t, err)
				assert.Zero(t, l.Len())
			})

			t.Run("portfolio round trip", func(t *testing.T) {
				s := b.open(t)
				ctx := context.Background()

				p, err := portfolio.Restore(8200.125, map[string]int{"AAPL": 10, "GOOG": 3})
				require.NoError(t, err)
				require.NoError(t, s.SavePortfolio(ctx, "alice", p))

				got, err := s.LoadPortfolio(ctx, "alice")
				require.NoError(t, err)
				assert.True(t, p.Equal(got))
			})

			t.Run("save overwrites", func(t *testing.T) {
				s := b.open(t)
				ctx := context.Background()

				first, _ := portfolio.Restore(100, map[string]int{"AAPL": 1, "TSLA": 2})
				require.NoError(t, s.SavePortfolio(ctx, "bob", first))
				second, _ := portfolio.Restore(50, map[string]int{"GOOG": 7})
				require.NoError(t, s.SavePortfolio(ctx, "bob", second))

				got, err := s.LoadPortfolio(ctx, "bob")
				require.NoError(t, err)
				assert.True(t, second.Equal(got))

				require.NoError(t, s.SaveLedger(ctx, "bob", journal.NewLedger(
					journal.TradeRecord{Kind: journal.Buy, Symbol: "AAPL", Quantity: 1, Price: 100},
					journal.TradeRecord{Kind: journal.Buy, Symbol: "TSLA", Quantity: 2, Price: 200},
				)))
				only := journal.TradeRecord{Kind: journal.Sell, Symbol: "GOOG", Quantity: 7, Price: 120}
				require.NoError(t, s.SaveLedger(ctx, "bob", journal.NewLedger(only)))

				l, err := s.LoadLedger(ctx, "bob")
				require.NoError(t, err)
				assert.Equal(t, []journal.TradeRecord{only}, l.All())
			})

			t.Run("ledger round trip keeps order", func(t *testing.T) {
				s := b.open(t)
				ctx := context.Background()

				in := journal.NewLedger()
				for i := 1; i <= 25; i++ {
					kind := journal.Buy
					if i%3 == 0 {
						kind = journal.Sell
					}
					require.NoError(t, in.Record(journal.TradeRecord{Kind: kind, Symbol: "AAPL", Quantity: i, Price: 100 + float64(i)/7}))
				}
				require.NoError(t, s.SaveLedger(ctx, "carol", in))

				out, err := s.LoadLedger(ctx, "carol")
				require.NoError(t, err)
				assert.Equal(t, in.All(), out.All())
			})

			t.Run("identities are isolated", func(t *testing.T) {
				s := b.open(t)
				ctx := context.Background()

				require.NoError(t, s.SavePortfolio(ctx, "dave", portfolio.New(1)))
				require.NoError(t, s.SavePortfolio(ctx, "erin", portfolio.New(2)))

				d, err := s.LoadPortfolio(ctx, "dave")
				require.NoError(t, err)
				assert.Equal(t, 1.0, d.Cash())

				_, err = s.LoadPortfolio(ctx, "frank")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("unstorable ledger refused and old ledger kept", func(t *testing.T) {
				s := b.open(t)
				ctx := context.Background()

				good := journal.TradeRecord{Kind: journal.Buy, Symbol: "AAPL", Quantity: 1, Price: 180}
				require.NoError(t, s.SaveLedger(ctx, "gail", journal.NewLedger(good)))

				bad := journal.NewLedger(good, journal.TradeRecord{Kind: journal.Buy, Symbol: "BRK B", Quantity: 1, Price: 300})
				assert.ErrorIs(t, s.SaveLedger(ctx, "gail", bad), journal.ErrMalformedRecord)

				l, err := s.LoadLedger(ctx, "gail")
				require.NoError(t, err)
				assert.Equal(t, []journal.TradeRecord{good}, l.All())
			})

			t.Run("empty identity rejected", func(t *testing.T) {
				s := b.open(t)
				ctx := context.Background()

				_, err := s.LoadPortfolio(ctx, "")
				assert.ErrorIs(t, err, ErrInvalidIdentity)
				assert.ErrorIs(t, s.SavePortfolio(ctx, "", portfolio.New(1)), ErrInvalidIdentity)
				_, err = s.LoadLedger(ctx, "")
				assert.ErrorIs(t, err, ErrInvalidIdentity)
				assert.ErrorIs(t, s.SaveLedger(ctx, "", journal.NewLedger()), ErrInvalidIdentity)
			})
		})
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	s, err := Open(KindFile, filepath.Join(dir, "data"), "")
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(KindSQLite, "", filepath.Join(dir, "trader.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	assert.NoError(t, s.Close())

	_, err = Open("s3", "", "")
	assert.Error(t, err)
}
