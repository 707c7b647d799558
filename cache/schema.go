package cache

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id INTEGER NOT NULL,
	user_id TEXT NOT NULL,
	entry_time TEXT NOT NULL,
	symbol TEXT NOT NULL,
	entry_price REAL NOT NULL,
	stop_loss REAL NOT NULL,
	position_size REAL NOT NULL,
	target REAL NOT NULL,
	trailing_stop REAL NOT NULL,
	exit_time TEXT,
	exit_price REAL NOT NULL,
	pnl REAL NOT NULL,
	setup TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (user_id, id)
);

CREATE INDEX IF NOT EXISTS idx_entries_user ON entries(user_id, position);
`
