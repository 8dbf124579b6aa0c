// store/schema.go
package store

const Schema = `
CREATE TABLE IF NOT EXISTS portfolios (
	identity TEXT PRIMARY KEY,
	cash REAL NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS holdings (
	identity TEXT NOT NULL,
	symbol TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	PRIMARY KEY (identity, symbol)
);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	identity TEXT NOT NULL,
	seq INTEGER NOT NULL,
	kind TEXT NOT NULL,
	symbol TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	price REAL NOT NULL,
	saved_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_identity_seq ON trades(identity, seq);
`
