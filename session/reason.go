package session

import (
	"errors"

	"github.com/rustyeddy/papertrader/market"
	"github.com/rustyeddy/papertrader/portfolio"
)

// Reason codes reported to the shell for rejected trades.
const (
	ReasonInsufficientFunds    = "insufficient_funds"
	ReasonInsufficientHoldings = "insufficient_holdings"
	ReasonUnknownSymbol        = "unknown_symbol"
	ReasonInvalidQuantity      = "invalid_quantity"
	ReasonInvalidPrice         = "invalid_price"
	ReasonInvalidSymbol        = "invalid_symbol"
	ReasonInternal             = "internal_error"
)

var reasons = []struct {
	err  error
	code string
}{
	{portfolio.ErrInsufficientFunds, ReasonInsufficientFunds},
	{portfolio.ErrInsufficientHoldings, ReasonInsufficientHoldings},
	{market.ErrUnknownSymbol, ReasonUnknownSymbol},
	{portfolio.ErrInvalidQuantity, ReasonInvalidQuantity},
	{portfolio.ErrInvalidPrice, ReasonInvalidPrice},
	{portfolio.ErrInvalidSymbol, ReasonInvalidSymbol},
}

// ReasonCode maps a trade error to a stable code. It returns "" for nil.
func ReasonCode(err error) string {
	if err == nil {
		return ""
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.code
		}
	}
	return ReasonInternal
}
