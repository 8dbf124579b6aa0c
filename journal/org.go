package journal

import (
	"fmt"
	"strings"
)

// FormatTradeOrg renders a trade as an Org-mode entry. seq is the 1-based
// position of the trade in its ledger.
func FormatTradeOrg(seq int, t TradeRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("** Trade %d: %s %s\n", seq, t.Kind, t.Symbol))
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":SEQ: %d\n", seq))
	b.WriteString(fmt.Sprintf(":KIND: %s\n", t.Kind))
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", t.Symbol))
	b.WriteString(fmt.Sprintf(":QUANTITY: %d\n", t.Quantity))
	b.WriteString(fmt.Sprintf(":PRICE: %.2f\n", t.Price))
	b.WriteString(fmt.Sprintf(":TOTAL: %.2f\n", t.Total()))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Notes\n- \n")

	return b.String()
}

// FormatLedgerOrg renders every trade separated by blank lines.
func FormatLedgerOrg(l *Ledger) string {
	var b strings.Builder
	for i, t := range l.records {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTradeOrg(i+1, t))
	}
	return b.String()
}
