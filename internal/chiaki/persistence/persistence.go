// Copyright (c) 2026 camp-sub001 contributors.

/*
Package persistence is the only component that touches SQL. It exposes a
generic [Adapter] parameterized over an entity's row type, built from a
[Schema], [Binder], and [RowMaterializer] triple supplied by each entity
package (kinds, formats, feeds, series, candidates).

Backing store is an embedded, single-process SQLite database opened via
modernc.org/sqlite's pure-Go driver — no cgo, no network round trip, matching
the single-binary deployment the toolkit targets.
*/
package persistence

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/367718/camp-sub001/internal/platform/apperr"
	"github.com/367718/camp-sub001/internal/platform/dberr"
)

// Schema supplies the six SQL strings an [Adapter] needs for one table.
// Entry is the row's materialized Go representation.
type Schema[Entry any] interface {
	// CreateTable is a CREATE TABLE IF NOT EXISTS statement.
	CreateTable() string
	// SelectAll returns every column Materialize expects, in order.
	SelectAll() string
	// Count returns a single-row, single-column row count.
	Count() string
	// InsertRow is a parameterized INSERT; the id column is omitted and
	// returned by the database (AUTOINCREMENT).
	InsertRow() string
	// UpdateRow is a parameterized UPDATE keyed by id.
	UpdateRow() string
	// DeleteRow is a parameterized DELETE keyed by id.
	DeleteRow() string
}

// Binder knows how to bind parameters for insert and update statements
// against a given Entry.
type Binder[Entry any] interface {
	// InsertArgs returns the positional arguments for Schema.InsertRow.
	InsertArgs(entry Entry) []any
	// UpdateArgs returns the positional arguments for Schema.UpdateRow; id is
	// the final argument (the WHERE clause key).
	UpdateArgs(id int64, entry Entry) []any
}

// RowMaterializer projects one result row into (id, Entry).
type RowMaterializer[Entry any] interface {
	// Materialize scans one row (as produced by Schema.SelectAll) into an
	// (id, Entry) pair.
	Materialize(row Scanner) (int64, Entry, error)
}

// Scanner is the subset of *sql.Row / *sql.Rows a [RowMaterializer] needs.
type Scanner interface {
	Scan(dest ...any) error
}

// Adapter is the generic SQL gateway for one entity table.
type Adapter[Entry any] struct {
	db     *sql.DB
	schema Schema[Entry]
	binder Binder[Entry]
	rows   RowMaterializer[Entry]
}

// New constructs an Adapter bound to db using the given Schema, Binder, and
// RowMaterializer.
func New[Entry any](db *sql.DB, schema Schema[Entry], binder Binder[Entry], rows RowMaterializer[Entry]) *Adapter[Entry] {
	return &Adapter[Entry]{db: db, schema: schema, binder: binder, rows: rows}
}

// Open opens (creating if absent) a SQLite database file at path and
// verifies connectivity with a ping.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperr.IO("open sqlite database", err)
	}
	db.SetMaxOpenConns(1) // single-writer, single-process (see SPEC_FULL.md §5)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperr.IO("ping sqlite database", err)
	}
	return db, nil
}

// CreateTable runs the schema's CREATE TABLE IF NOT EXISTS statement.
func (a *Adapter[Entry]) CreateTable(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, a.schema.CreateTable()); err != nil {
		return dberr.Wrap(err, "create table")
	}
	return nil
}

// Count returns the number of rows currently stored.
func (a *Adapter[Entry]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := a.db.QueryRowContext(ctx, a.schema.Count()).Scan(&n)
	if err != nil {
		return 0, dberr.Wrap(err, "count rows")
	}
	return n, nil
}

// Select streams every row through fn, in the order the driver returns them
// (unspecified — see SPEC_FULL.md §4.4).
func (a *Adapter[Entry]) Select(ctx context.Context, fn func(id int64, entry Entry) error) error {
	rows, err := a.db.QueryContext(ctx, a.schema.SelectAll())
	if err != nil {
		return dberr.Wrap(err, "select rows")
	}
	defer rows.Close()

	for rows.Next() {
		id, entry, err := a.rows.Materialize(rows)
		if err != nil {
			return dberr.Wrap(err, "materialize row")
		}
		if err := fn(id, entry); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return dberr.Wrap(err, "iterate rows")
	}
	return nil
}

// Insert persists entry and returns the id assigned by the database.
func (a *Adapter[Entry]) Insert(ctx context.Context, entry Entry) (int64, error) {
	result, err := a.db.ExecContext(ctx, a.schema.InsertRow(), a.binder.InsertArgs(entry)...)
	if err != nil {
		return 0, dberr.Wrap(err, "insert row")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, apperr.IO("read last insert id", err)
	}
	return id, nil
}

// Update replaces the row at id with entry's fields.
func (a *Adapter[Entry]) Update(ctx context.Context, id int64, entry Entry) error {
	result, err := a.db.ExecContext(ctx, a.schema.UpdateRow(), a.binder.UpdateArgs(id, entry)...)
	if err != nil {
		return dberr.Wrap(err, "update row")
	}
	return dberr.RowsAffected(result, fmt.Sprintf("update row %d", id), 1)
}

// Delete removes the row at id.
func (a *Adapter[Entry]) Delete(ctx context.Context, id int64) error {
	result, err := a.db.ExecContext(ctx, a.schema.DeleteRow(), id)
	if err != nil {
		return dberr.Wrap(err, "delete row")
	}
	return dberr.RowsAffected(result, fmt.Sprintf("delete row %d", id), 1)
}

// Tx is an open transaction obtained from [Adapter.Begin]; mutating calls on
// the adapter issued during a transaction are not automatically routed
// through it — callers that need transactional multi-statement writes use
// Tx's own Exec directly, then Commit or Rollback.
type Tx struct {
	tx *sql.Tx
}

// Begin starts a transaction. Commit or Rollback failing is treated as
// fatal: the caller must surface the error rather than swallow it (see
// SPEC_FULL.md §4.3).
func (a *Adapter[Entry]) Begin(ctx context.Context) (*Tx, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, dberr.Wrap(err, "begin transaction")
	}
	return &Tx{tx: tx}, nil
}

// Exec runs a statement within the transaction.
func (t *Tx) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	result, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "exec in transaction")
	}
	return result, nil
}

// Commit finalizes the transaction.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return apperr.IO("commit transaction", err)
	}
	return nil
}

// Rollback aborts the transaction. Calling Rollback after Commit is a no-op
// error from database/sql and is ignored here, so Rollback may be deferred
// right after Begin.
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return apperr.IO("rollback transaction", err)
	}
	return nil
}
