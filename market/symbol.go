package market

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var ErrInvalidSymbol = errors.New("invalid symbol")

// CheckSymbol accepts the symbols that can be listed, held and written to
// the comma separated state files: non-empty, upper case, and free of
// commas, whitespace and control characters.
func CheckSymbol(s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSymbol)
	}
	if s != strings.ToUpper(s) {
		return fmt.Errorf("%w %q: must be upper case", ErrInvalidSymbol, s)
	}
	for _, r := range s {
		if r == ',' || unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("%w %q: contains %q", ErrInvalidSymbol, s, r)
		}
	}
	return nil
}
