// Copyright (c) 2026 camp-sub001 contributors.

package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// widgetEntry is a minimal Entry used only to exercise the generic Adapter.
type widgetEntry struct {
	Name string
}

type widgetSchema struct{}

func (widgetSchema) CreateTable() string {
	return `CREATE TABLE IF NOT EXISTS widgets (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL UNIQUE)`
}
func (widgetSchema) SelectAll() string  { return `SELECT id, name FROM widgets` }
func (widgetSchema) Count() string      { return `SELECT COUNT(*) FROM widgets` }
func (widgetSchema) InsertRow() string  { return `INSERT INTO widgets (name) VALUES (?)` }
func (widgetSchema) UpdateRow() string  { return `UPDATE widgets SET name = ? WHERE id = ?` }
func (widgetSchema) DeleteRow() string  { return `DELETE FROM widgets WHERE id = ?` }

type widgetBinder struct{}

func (widgetBinder) InsertArgs(e widgetEntry) []any { return []any{e.Name} }
func (widgetBinder) UpdateArgs(id int64, e widgetEntry) []any {
	return []any{e.Name, id}
}

type widgetRows struct{}

func (widgetRows) Materialize(row Scanner) (int64, widgetEntry, error) {
	var id int64
	var e widgetEntry
	err := row.Scan(&id, &e.Name)
	return id, e, err
}

func newTestAdapter(t *testing.T) *Adapter[widgetEntry] {
	t.Helper()
	db, err := Open(context.Background(), "file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	a := New[widgetEntry](db, widgetSchema{}, widgetBinder{}, widgetRows{})
	require.NoError(t, a.CreateTable(context.Background()))
	return a
}

func TestInsertSelectRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)

	id, err := a.Insert(ctx, widgetEntry{Name: "gizmo"})
	require.NoError(t, err)
	assert.Positive(t, id)

	var seen []widgetEntry
	require.NoError(t, a.Select(ctx, func(gotID int64, e widgetEntry) error {
		assert.Equal(t, id, gotID)
		seen = append(seen, e)
		return nil
	}))
	require.Len(t, seen, 1)
	assert.Equal(t, "gizmo", seen[0].Name)

	n, err := a.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUpdateReplacesRow(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)

	id, err := a.Insert(ctx, widgetEntry{Name: "gizmo"})
	require.NoError(t, err)

	require.NoError(t, a.Update(ctx, id, widgetEntry{Name: "renamed"}))

	var got widgetEntry
	require.NoError(t, a.Select(ctx, func(_ int64, e widgetEntry) error {
		got = e
		return nil
	}))
	assert.Equal(t, "renamed", got.Name)
}

func TestUpdateMissingRowFails(t *testing.T) {
	a := newTestAdapter(t)
	err := a.Update(context.Background(), 999, widgetEntry{Name: "x"})
	require.Error(t, err)
}

func TestDeleteRemovesRow(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)

	id, err := a.Insert(ctx, widgetEntry{Name: "gizmo"})
	require.NoError(t, err)

	require.NoError(t, a.Delete(ctx, id))

	n, err := a.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestDuplicateInsertFailsUniqueConstraint(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)

	_, err := a.Insert(ctx, widgetEntry{Name: "gizmo"})
	require.NoError(t, err)

	_, err = a.Insert(ctx, widgetEntry{Name: "gizmo"})
	require.Error(t, err)
}

func TestTransactionCommitPersists(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)

	tx, err := a.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `INSERT INTO widgets (name) VALUES (?)`, "via-tx")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	n, err := a.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestTransactionRollbackDiscards(t *testing.T) {
	ctx := context.Background()
	a := newTestAdapter(t)

	tx, err := a.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `INSERT INTO widgets (name) VALUES (?)`, "via-tx")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	n, err := a.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
