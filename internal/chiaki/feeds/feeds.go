// Copyright (c) 2026 camp-sub001 contributors.

/*
Package feeds is the entity store for Feeds: the URLs the outer crawler
polls for new releases. Like Formats, this is a simple reference table —
nadeshiko's resolvers consume raw feed bytes handed to them by the caller,
never reaching into this store themselves (see SPEC_FULL.md §3).
*/
package feeds

import (
	"context"
	"database/sql"

	"github.com/367718/camp-sub001/internal/chiaki/persistence"
	"github.com/367718/camp-sub001/internal/platform/apperr"
	"github.com/367718/camp-sub001/internal/platform/validate"
)

// ID identifies a Feed row.
type ID int64

// Entry is one Feed's mutable fields.
type Entry struct {
	URL string
}

// Row pairs an ID with its Entry, as returned by [Store.Iter].
type Row struct {
	ID    ID
	Entry Entry
}

type schema struct{}

func (schema) CreateTable() string {
	return `CREATE TABLE IF NOT EXISTS feeds (id INTEGER PRIMARY KEY AUTOINCREMENT, url TEXT NOT NULL UNIQUE)`
}
func (schema) SelectAll() string { return `SELECT id, url FROM feeds` }
func (schema) Count() string     { return `SELECT COUNT(*) FROM feeds` }
func (schema) InsertRow() string { return `INSERT INTO feeds (url) VALUES (?)` }
func (schema) UpdateRow() string { return `UPDATE feeds SET url = ? WHERE id = ?` }
func (schema) DeleteRow() string { return `DELETE FROM feeds WHERE id = ?` }

type binder struct{}

func (binder) InsertArgs(e Entry) []any { return []any{e.URL} }
func (binder) UpdateArgs(id int64, e Entry) []any {
	return []any{e.URL, id}
}

type rowMaterializer struct{}

func (rowMaterializer) Materialize(row persistence.Scanner) (int64, Entry, error) {
	var id int64
	var e Entry
	err := row.Scan(&id, &e.URL)
	return id, e, err
}

// Store owns the in-memory Id -> Entry mapping for Feeds.
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

// Add validates and persists a new Feed, returning its assigned id.
func (s *Store) Add(ctx context.Context, entry Entry) (ID, error) {
	if err := validateEntry(entry, s.otherURLs(nil)); err != nil {
		return 0, err
	}
	id, err := s.adapter.Insert(ctx, entry)
	if err != nil {
		return 0, err
	}
	s.entries[ID(id)] = entry
	return ID(id), nil
}

// Edit validates and replaces the Feed at id.
func (s *Store) Edit(ctx context.Context, id ID, entry Entry) error {
	if _, ok := s.entries[id]; !ok {
		return apperr.NotFound("Feed")
	}
	if err := validateEntry(entry, s.otherURLs(&id)); err != nil {
		return err
	}
	if err := s.adapter.Update(ctx, int64(id), entry); err != nil {
		return err
	}
	s.entries[id] = entry
	return nil
}

// Remove deletes the Feed at id.
func (s *Store) Remove(ctx context.Context, id ID) error {
	if _, ok := s.entries[id]; !ok {
		return apperr.NotFound("Feed")
	}
	if err := s.adapter.Delete(ctx, int64(id)); err != nil {
		return err
	}
	delete(s.entries, id)
	return nil
}

func (s *Store) otherURLs(excludeID *ID) []string {
	urls := make([]string, 0, len(s.entries))
	for id, e := range s.entries {
		if excludeID != nil && id == *excludeID {
			continue
		}
		urls = append(urls, e.URL)
	}
	return urls
}

func validateEntry(entry Entry, existingURLs []string) error {
	v := validate.New()
	v.Required("URL", entry.URL)
	v.UniqueCaseInsensitive("URL", entry.URL, existingURLs)
	return v.Err()
}
