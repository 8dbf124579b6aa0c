package journal

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeLine(t *testing.T) {
	t.Parallel()

	line := EncodeLine(TradeRecord{Kind: Buy, Symbol: "AAPL", Quantity: 10, Price: 180})
	assert.Equal(t, "BUY,AAPL,10,180", line)

	line = EncodeLine(TradeRecord{Kind: Sell, Symbol: "GOOG", Quantity: 2, Price: 117.625})
	assert.Equal(t, "SELL,GOOG,2,117.625", line)
}

func TestDecodeLineMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
	}{
		{"missing field", "BUY,AAPL,10"},
		{"extra field", "BUY,AAPL,10,180,x"},
		{"unknown kind", "HOLD,AAPL,10,180"},
		{"lowercase kind", "buy,AAPL,10,180"},
		{"empty symbol", "BUY,,10,180"},
		{"space in symbol", "BUY,BRK B,10,180"},
		{"lowercase symbol", "BUY,aapl,10,180"},
		{"zero quantity", "BUY,AAPL,0,180"},
		{"negative quantity", "SELL,AAPL,-1,180"},
		{"fractional quantity", "BUY,AAPL,1.5,180"},
		{"bad price", "BUY,AAPL,10,abc"},
		{"zero price", "BUY,AAPL,10,0"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLine(tt.line)
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestDecodeAcceptsOriginalFormat(t *testing.T) {
	t.Parallel()

	l, err := Decode(strings.NewReader("BUY,AAPL,10,180.0\r\nSELL,AAPL,5,183.27490012\n"))
	require.NoError(t, err)

	assert.Equal(t, []TradeRecord{
		{Kind: Buy, Symbol: "AAPL", Quantity: 10, Price: 180},
		{Kind: Sell, Symbol: "AAPL", Quantity: 5, Price: 183.27490012},
	}, l.All())
}

func TestEmptyLedgerRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, NewLedger()))
	assert.Zero(t, buf.Len())

	l, err := Decode(&buf)
	require.NoError(t, err)
	assert.Zero(t, l.Len())
}

func TestLedgerRoundTrip(t *testing.T) {
	t.Parallel()

	in := NewLedger(
		TradeRecord{Kind: Buy, Symbol: "AAPL", Quantity: 10, Price: 180},
		TradeRecord{Kind: Buy, Symbol: "TSLA", Quantity: 1, Price: 203.1415926},
		TradeRecord{Kind: Sell, Symbol: "AAPL", Quantity: 10, Price: 176.5},
	)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, in))
	assert.Equal(t, "BUY,AAPL,10,180\nBUY,TSLA,1,203.1415926\nSELL,AAPL,10,176.5\n", buf.String())

	out, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, in.All(), out.All())
}

func TestDecodeFailsWholeLoad(t *testing.T) {
	t.Parallel()

	l, err := Decode(strings.NewReader("BUY,AAPL,10,180\nSELL,AAPL,5\nBUY,GOOG,1,120\n"))
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "line 2")
	assert.Nil(t, l)
}

func TestDecodeSkipsBlankLines(t *testing.T) {
	t.Parallel()

	l, err := Decode(strings.NewReader("\nBUY,AAPL,10,180\n\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, l.Len())
}

func TestEncodeRefusesWhatDecodeRejects(t *testing.T) {
	t.Parallel()

	l := NewLedger(
		TradeRecord{Kind: Buy, Symbol: "AAPL", Quantity: 1, Price: 180},
		TradeRecord{Kind: Buy, Symbol: "BRK B", Quantity: 1, Price: 300},
	)

	var buf bytes.Buffer
	err := Encode(&buf, l)
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "record 2")
	assert.Zero(t, buf.Len())
}

func TestDecodeOverlongLine(t *testing.T) {
	t.Parallel()

	in := "BUY,AAPL,10,180\nBUY,AAPL,10," + strings.Repeat("1", 70*1024) + "\n"
	_, err := Decode(strings.NewReader(in))
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.ErrorIs(t, err, bufio.ErrTooLong)
	assert.Contains(t, err.Error(), "line 2")
}
