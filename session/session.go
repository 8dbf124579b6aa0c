// Package session ties one user's market, portfolio and ledger together and
// runs the trade flow: quote, mutate, record.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/rustyeddy/papertrader/internal/id"
	"github.com/rustyeddy/papertrader/journal"
	"github.com/rustyeddy/papertrader/market"
	"github.com/rustyeddy/papertrader/portfolio"
	"github.com/rustyeddy/papertrader/store"
)

// Origin tells how Open obtained the session state.
type Origin int

const (
	// Fresh means nothing was saved for the user yet.
	Fresh Origin = iota
	// Restored means portfolio and ledger came from the store.
	Restored
	// Recovered means saved state was corrupt and was discarded on request.
	Recovered
)

func (o Origin) String() string {
	switch o {
	case Fresh:
		return "fresh"
	case Restored:
		return "restored"
	case Recovered:
		return "recovered"
	}
	return fmt.Sprintf("Origin(%d)", int(o))
}

type Options struct {
	// StartingCash funds a fresh portfolio. Zero means portfolio.DefaultCash.
	StartingCash float64

	// DiscardCorrupt starts fresh instead of failing when saved state is
	// corrupt.
	DiscardCorrupt bool

	// Market defaults to market.New(nil).
	Market *market.Market

	Logger *slog.Logger
}

type Session struct {
	ID        string
	User      string
	Market    *market.Market
	Portfolio *portfolio.Portfolio
	Ledger    *journal.Ledger

	store store.Store
	log   *slog.Logger
}

// Open loads the user's saved state from st. A user with no saved
// portfolio gets a fresh one and an empty ledger. Corrupt state is an
// error unless opts.DiscardCorrupt is set.
func Open(ctx context.Context, st store.Store, user string, opts Options) (*Session, Origin, error) {
	if user == "" {
		return nil, Fresh, store.ErrInvalidIdentity
	}
	if opts.StartingCash == 0 {
		opts.StartingCash = portfolio.DefaultCash
	}
	if c := opts.StartingCash; math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
		return nil, Fresh, fmt.Errorf("starting cash %v: %w", c, portfolio.ErrInvalidState)
	}
	if opts.Market == nil {
		opts.Market = market.New(nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	s := &Session{
		ID:     id.New(),
		User:   user,
		Market: opts.Market,
		store:  st,
	}
	s.log = opts.Logger.With("user", user, "session", s.ID)

	origin, err := s.load(ctx, opts)
	if err != nil {
		s.log.Error("load failed", "err", err)
		return nil, origin, err
	}

	s.log.Info("session opened",
		"origin", origin.String(),
		"cash", s.Portfolio.Cash(),
		"holdings", len(s.Portfolio.Symbols()),
		"trades", s.Ledger.Len(),
	)
	return s, origin, nil
}

func (s *Session) load(ctx context.Context, opts Options) (Origin, error) {
	fresh := func() {
		s.Portfolio = portfolio.New(opts.StartingCash)
		s.Ledger = journal.NewLedger()
	}

	p, err := s.store.LoadPortfolio(ctx, s.User)
	switch {
	case errors.Is(err, store.ErrNotFound):
		fresh()
		return Fresh, nil
	case errors.Is(err, store.ErrCorruptState) && opts.DiscardCorrupt:
		s.log.Warn("discarding corrupt portfolio", "err", err)
		fresh()
		return Recovered, nil
	case err != nil:
		return Fresh, err
	}

	l, err := s.store.LoadLedger(ctx, s.User)
	switch {
	case errors.Is(err, store.ErrCorruptState) && opts.DiscardCorrupt:
		s.log.Warn("discarding corrupt ledger", "err", err)
		s.Portfolio = p
		s.Ledger = journal.NewLedger()
		return Recovered, nil
	case err != nil:
		return Fresh, err
	}

	s.Portfolio = p
	s.Ledger = l
	return Restored, nil
}

// Buy fills qty shares of symbol at the current market price.
func (s *Session) Buy(symbol string, qty int) (journal.TradeRecord, error) {
	return s.trade(journal.Buy, symbol, qty)
}

// Sell sells qty shares of symbol at the current market price.
func (s *Session) Sell(symbol string, qty int) (journal.TradeRecord, error) {
	return s.trade(journal.Sell, symbol, qty)
}

func (s *Session) trade(kind journal.Kind, symbol string, qty int) (journal.TradeRecord, error) {
	price, err := s.Market.Quote(symbol)
	if err == nil {
		if kind == journal.Buy {
			err = s.Portfolio.Buy(symbol, qty, price)
		} else {
			err = s.Portfolio.Sell(symbol, qty, price)
		}
	}
	if err != nil {
		s.log.Info("trade rejected",
			"kind", string(kind), "symbol", symbol, "qty", qty, "reason", ReasonCode(err))
		return journal.TradeRecord{}, err
	}

	rec := journal.TradeRecord{Kind: kind, Symbol: symbol, Quantity: qty, Price: price}
	if err := s.Ledger.Record(rec); err != nil {
		// Portfolio checks the same rules, so this means the two disagree.
		s.log.Error("trade not recorded", "kind", string(kind), "symbol", symbol, "err", err)
		return journal.TradeRecord{}, err
	}

	s.log.Info("trade executed",
		"kind", string(kind), "symbol", symbol, "qty", qty, "price", price, "cash", s.Portfolio.Cash())
	return rec, nil
}

// Tick advances every market price by one step.
func (s *Session) Tick() {
	s.Market.Tick()
	s.log.Debug("market ticked", "value", s.Value())
}

func (s *Session) Cash() float64 { return s.Portfolio.Cash() }

// Value is the portfolio marked to the current market.
func (s *Session) Value() float64 { return s.Portfolio.Value(s.Market) }

// Save writes portfolio and ledger. On failure the in-memory state is
// unchanged and the session can keep trading or retry.
func (s *Session) Save(ctx context.Context) error {
	var errs []error
	if err := s.store.SavePortfolio(ctx, s.User, s.Portfolio); err != nil {
		errs = append(errs, err)
	}
	if err := s.store.SaveLedger(ctx, s.User, s.Ledger); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		s.log.Error("save failed", "err", err)
		return err
	}
	s.log.Info("state saved", "cash", s.Portfolio.Cash(), "trades", s.Ledger.Len())
	return nil
}
