// journal/csv.go
package journal

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{"seq", "kind", "symbol", "quantity", "price", "total"}

// WriteCSV exports the ledger with a header row, for spreadsheets.
func WriteCSV(w io.Writer, l *Ledger) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i, t := range l.records {
		err := cw.Write([]string{
			strconv.Itoa(i + 1),
			string(t.Kind),
			t.Symbol,
			strconv.Itoa(t.Quantity),
			f(t.Price),
			f(t.Total()),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
