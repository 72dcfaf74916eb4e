// Copyright (c) 2026 camp-sub001 contributors.

/*
Package formats is the entity store for Formats: a simple reference table
(e.g. "BD", "WEB") maintained by the outer application's preferences UI.
Neither nadeshiko nor the rest of chiaki requires Formats beyond storing and
validating them (see SPEC_FULL.md §3).
*/
package formats

import (
	"context"
	"database/sql"

	"github.com/367718/camp-sub001/internal/chiaki/persistence"
	"github.com/367718/camp-sub001/internal/platform/apperr"
	"github.com/367718/camp-sub001/internal/platform/validate"
)

// ID identifies a Format row.
type ID int64

// Entry is one Format's mutable fields.
type Entry struct {
	Name string
}

// Row pairs an ID with its Entry, as returned by [Store.Iter].
type Row struct {
	ID    ID
	Entry Entry
}

type schema struct{}

func (schema) CreateTable() string {
	return `CREATE TABLE IF NOT EXISTS formats (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL UNIQUE)`
}
func (schema) SelectAll() string { return `SELECT id, name FROM formats` }
func (schema) Count() string     { return `SELECT COUNT(*) FROM formats` }
func (schema) InsertRow() string { return `INSERT INTO formats (name) VALUES (?)` }
func (schema) UpdateRow() string { return `UPDATE formats SET name = ? WHERE id = ?` }
func (schema) DeleteRow() string { return `DELETE FROM formats WHERE id = ?` }

type binder struct{}

func (binder) InsertArgs(e Entry) []any { return []any{e.Name} }
func (binder) UpdateArgs(id int64, e Entry) []any {
	return []any{e.Name, id}
}

type rowMaterializer struct{}

func (rowMaterializer) Materialize(row persistence.Scanner) (int64, Entry, error) {
	var id int64
	var e Entry
	err := row.Scan(&id, &e.Name)
	return id, e, err
}

// Store owns the in-memory Id -> Entry mapping for Formats.
type Store struct {
	adapter *persistence.Adapter[Entry]
	entries map[ID]Entry
}

// NewAdapter builds the persistence.Adapter this package's store needs,
// bound to an already-open database handle.
func NewAdapter(db *sql.DB) *persistence.Adapter[Entry] {
	return persistence.New[Entry](db, schema{}, binder{}, rowMaterializer{})
}

// NewStore constructs a Store bound to adapter. Call [Store.Load] before
// use.
func NewStore(adapter *persistence.Adapter[Entry]) *Store {
	return &Store{adapter: adapter, entries: make(map[ID]Entry)}
}

// Load creates the backing table if missing and streams every row into the
// in-memory mapping.
func (s *Store) Load(ctx context.Context) error {
	if err := s.adapter.CreateTable(ctx); err != nil {
		return err
	}
	return s.adapter.Select(ctx, func(id int64, e Entry) error {
		s.entries[ID(id)] = e
		return nil
	})
}

// Iter returns a snapshot of every (Id, Entry) pair; order is unspecified.
func (s *Store) Iter() []Row {
	rows := make([]Row, 0, len(s.entries))
	for id, e := range s.entries {
		rows = append(rows, Row{ID: id, Entry: e})
	}
	return rows
}

// Get returns the Entry for id, or ok=false if unknown.
func (s *Store) Get(id ID) (Entry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// Add validates and persists a new Format, returning its assigned id.
func (s *Store) Add(ctx context.Context, entry Entry) (ID, error) {
	if err := validateEntry(entry, s.otherNames(nil)); err != nil {
		return 0, err
	}
	id, err := s.adapter.Insert(ctx, entry)
	if err != nil {
		return 0, err
	}
	s.entries[ID(id)] = entry
	return ID(id), nil
}

// Edit validates and replaces the Format at id.
func (s *Store) Edit(ctx context.Context, id ID, entry Entry) error {
	if _, ok := s.entries[id]; !ok {
		return apperr.NotFound("Format")
	}
	if err := validateEntry(entry, s.otherNames(&id)); err != nil {
		return err
	}
	if err := s.adapter.Update(ctx, int64(id), entry); err != nil {
		return err
	}
	s.entries[id] = entry
	return nil
}

// Remove deletes the Format at id. Formats have no downstream referential
// integrity rule (see SPEC_FULL.md §3).
func (s *Store) Remove(ctx context.Context, id ID) error {
	if _, ok := s.entries[id]; !ok {
		return apperr.NotFound("Format")
	}
	if err := s.adapter.Delete(ctx, int64(id)); err != nil {
		return err
	}
	delete(s.entries, id)
	return nil
}

func (s *Store) otherNames(excludeID *ID) []string {
	names := make([]string, 0, len(s.entries))
	for id, e := range s.entries {
		if excludeID != nil && id == *excludeID {
			continue
		}
		names = append(names, e.Name)
	}
	return names
}

func validateEntry(entry Entry, existingNames []string) error {
	v := validate.New()
	v.Required("Name", entry.Name)
	v.UniqueCaseInsensitive("Name", entry.Name, existingNames)
	return v.Err()
}
