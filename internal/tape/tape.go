// Package tape records evaluations in an SQLite database, like the paper tape
// of an adding machine.
package tape

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"fortio.org/log"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is one recorded evaluation. Err is empty when the evaluation
// succeeded.
type Entry struct {
	ID     uuid.UUID
	Source string
	Value  float64
	Err    string
	At     time.Time
}

// Tape is an open tape database.
type Tape struct {
	db *sql.DB
}

// Values are stored as text because SQLite turns NaN into NULL.
const schema = `CREATE TABLE IF NOT EXISTS tape (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	value TEXT NOT NULL,
	err TEXT NOT NULL DEFAULT '',
	at INTEGER NOT NULL
)`

// Open opens or creates the tape at path.
func Open(ctx context.Context, path string) (*Tape, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("tape: failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("tape: failed to connect to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("tape: creating table: %w", err)
	}
	log.LogVf("tape: opened %s", path)
	return &Tape{db: db}, nil
}

// Record appends an evaluation to the tape and returns its entry. A nil
// evalErr records a success.
func (t *Tape) Record(ctx context.Context, source string, value float64, evalErr error) (Entry, error) {
	e := Entry{
		ID:     uuid.New(),
		Source: source,
		Value:  value,
		At:     time.Now(),
	}
	if evalErr != nil {
		e.Err = evalErr.Error()
	}
	_, err := t.db.ExecContext(ctx,
		"INSERT INTO tape (id, source, value, err, at) VALUES (?, ?, ?, ?, ?)",
		e.ID.String(), e.Source, strconv.FormatFloat(e.Value, 'g', -1, 64), e.Err, e.At.UnixNano())
	if err != nil {
		return Entry{}, fmt.Errorf("tape: recording entry: %w", err)
	}
	return e, nil
}

// Recent returns up to n entries, newest first.
func (t *Tape) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := t.db.QueryContext(ctx,
		"SELECT id, source, value, err, at FROM tape ORDER BY at DESC, rowid DESC LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("tape: querying entries: %w", err)
	}
	defer rows.Close()
	var r []Entry
	for rows.Next() {
		var (
			e  Entry
			id string
			v  string
			at int64
		)
		if err := rows.Scan(&id, &e.Source, &v, &e.Err, &at); err != nil {
			return nil, fmt.Errorf("tape: reading entry: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("tape: bad entry id %q: %w", id, err)
		}
		if e.Value, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("tape: bad entry value %q: %w", v, err)
		}
		e.At = time.Unix(0, at)
		r = append(r, e)
	}
	return r, rows.Err()
}

// Close closes the database.
func (t *Tape) Close() error {
	return t.db.Close()
}
