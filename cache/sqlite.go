// Package cache mirrors the most recent backend list result per user in a
// local SQLite database so entries remain viewable while the backend is
// unreachable. The backend stays the state of record: the cache is replaced
// wholesale on every successful refresh and never written to directly.
package cache

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mvaishya/tradejournal/journal"
)

type Cache struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{db: db}, nil
}

// ReplaceUser swaps the cached entry set for userID with the given list,
// recording backend order in the position column.
func (c *Cache) ReplaceUser(userID string, entries []journal.Entry) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM entries WHERE user_id = ?`, userID); err != nil {
		return err
	}

	for i, e := range entries {
		var exitTime any
		if e.ExitTime != nil {
			exitTime = *e.ExitTime
		}
		_, err := tx.Exec(`
			INSERT INTO entries
			(id, user_id, entry_time, symbol, entry_price, stop_loss, position_size,
			 target, trailing_stop, exit_time, exit_price, pnl, setup, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, userID, e.EntryTime, e.Symbol, e.EntryPrice, e.StopLoss,
			e.PositionSize, e.Target, e.TrailingStop, exitTime, e.ExitPrice,
			e.PnL, e.Setup, i,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListUser returns the cached entries for userID in the order the backend
// last returned them.
func (c *Cache) ListUser(userID string) ([]journal.Entry, error) {
	rows, err := c.db.Query(`
		SELECT id, user_id, entry_time, symbol, entry_price, stop_loss, position_size,
		       target, trailing_stop, exit_time, exit_price, pnl, setup
		FROM entries
		WHERE user_id = ?
		ORDER BY position ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []journal.Entry
	for rows.Next() {
		var e journal.Entry
		var exitTime sql.NullString
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.EntryTime,
			&e.Symbol,
			&e.EntryPrice,
			&e.StopLoss,
			&e.PositionSize,
			&e.Target,
			&e.TrailingStop,
			&exitTime,
			&e.ExitPrice,
			&e.PnL,
			&e.Setup,
		); err != nil {
			return nil, err
		}
		if exitTime.Valid {
			e.ExitTime = &exitTime.String
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteEntry drops one cached entry, used after a successful backend delete.
func (c *Cache) DeleteEntry(userID string, id int64) error {
	_, err := c.db.Exec(`DELETE FROM entries WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete cached entry: %w", err)
	}
	return nil
}

// ClearUser removes everything cached for userID, used on logout.
func (c *Cache) ClearUser(userID string) error {
	_, err := c.db.Exec(`DELETE FROM entries WHERE user_id = ?`, userID)
	return err
}

func (c *Cache) Close() error {
	return c.db.Close()
}
