// Copyright (c) 2026 camp-sub001 contributors.

/*
Package series is the entity store for Series: the watchlist itself. Every
Series references a Kind (injected via [kinds.Lookup]) and carries a status,
progress counter, and a "good" flag gated on completion.
*/
package series

import (
	"context"
	"database/sql"

	"github.com/367718/camp-sub001/internal/chiaki/kinds"
	"github.com/367718/camp-sub001/internal/chiaki/persistence"
	"github.com/367718/camp-sub001/internal/platform/apperr"
	"github.com/367718/camp-sub001/internal/platform/validate"
)

// ID identifies a Series row.
type ID int64

// Status is a Series' watch state.
type Status int

const (
	Watching Status = iota + 1
	OnHold
	PlanToWatch
	Completed
)

// Good marks whether a finished Series was worth watching.
type Good int

const (
	No Good = iota + 1
	Yes
)

// Entry is one Series' mutable fields.
type Entry struct {
	Title    string
	Kind     kinds.ID
	Status   Status
	Progress int64
	Good     Good
}

// Row pairs an ID with its Entry, as returned by [Store.Iter].
type Row struct {
	ID    ID
	Entry Entry
}

// Lookup is the read-only view other stores inject to validate a Series
// reference (e.g. candidates.Add requires one).
type Lookup interface {
	Get(id ID) (Entry, bool)
	Claimed(id ID) bool
}

type schema struct{}

func (schema) CreateTable() string {
	return `CREATE TABLE IF NOT EXISTS series (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL UNIQUE,
		kind INTEGER NOT NULL,
		status INTEGER NOT NULL,
		progress INTEGER NOT NULL,
		good INTEGER NOT NULL
	)`
}
func (schema) SelectAll() string {
	return `SELECT id, title, kind, status, progress, good FROM series`
}
func (schema) Count() string { return `SELECT COUNT(*) FROM series` }
func (schema) InsertRow() string {
	return `INSERT INTO series (title, kind, status, progress, good) VALUES (?, ?, ?, ?, ?)`
}
func (schema) UpdateRow() string {
	return `UPDATE series SET title = ?, kind = ?, status = ?, progress = ?, good = ? WHERE id = ?`
}
func (schema) DeleteRow() string { return `DELETE FROM series WHERE id = ?` }

type binder struct{}

func (binder) InsertArgs(e Entry) []any {
	return []any{e.Title, int64(e.Kind), int(e.Status), e.Progress, int(e.Good)}
}
func (binder) UpdateArgs(id int64, e Entry) []any {
	return []any{e.Title, int64(e.Kind), int(e.Status), e.Progress, int(e.Good), id}
}

type rowMaterializer struct{}

func (rowMaterializer) Materialize(row persistence.Scanner) (int64, Entry, error) {
	var id int64
	var e Entry
	var kindID int64
	var status, good int
	if err := row.Scan(&id, &e.Title, &kindID, &status, &e.Progress, &good); err != nil {
		return 0, Entry{}, err
	}
	e.Kind = kinds.ID(kindID)
	e.Status = Status(status)
	e.Good = Good(good)
	return id, e, nil
}

// Store owns the in-memory Id -> Entry mapping for Series.
type Store struct {
	adapter *persistence.Adapter[Entry]
	entries map[ID]Entry
	claims  map[ID]ID // series ID -> claiming candidate ID, set by candidates.Store
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

// Get returns the Entry for id, or ok=false if unknown. Implements
// [Lookup].
func (s *Store) Get(id ID) (Entry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// Claimed reports whether a candidates.Store has registered itself against
// id (see [Store.SetClaims]). Implements [Lookup].
func (s *Store) Claimed(id ID) bool {
	_, ok := s.claims[id]
	return ok
}

// SetClaims replaces the claim-tracking map the candidates store keeps in
// sync via its own Add/Remove calls, so Series' Lookup can answer Claimed
// without reaching into candidates (stores never reach for peers; the
// caller wires this explicitly — see SPEC_FULL.md §4.4/§9).
func (s *Store) SetClaims(claims map[ID]ID) {
	s.claims = claims
}

// ReferencesKind implements [kinds.ReferenceChecker]: reports whether any
// stored Series still points at kindID.
func (s *Store) ReferencesKind(kindID kinds.ID) bool {
	for _, e := range s.entries {
		if e.Kind == kindID {
			return true
		}
	}
	return false
}

// Add validates and persists a new Series, returning its assigned id.
func (s *Store) Add(ctx context.Context, entry Entry, kindsLookup kinds.Lookup) (ID, error) {
	if err := validateEntry(entry, s.otherTitles(nil), kindsLookup); err != nil {
		return 0, err
	}
	id, err := s.adapter.Insert(ctx, entry)
	if err != nil {
		return 0, err
	}
	s.entries[ID(id)] = entry
	return ID(id), nil
}

// Edit validates and replaces the Series at id.
func (s *Store) Edit(ctx context.Context, id ID, entry Entry, kindsLookup kinds.Lookup) error {
	if _, ok := s.entries[id]; !ok {
		return apperr.NotFound("Series")
	}
	if err := validateEntry(entry, s.otherTitles(&id), kindsLookup); err != nil {
		return err
	}
	if err := s.adapter.Update(ctx, int64(id), entry); err != nil {
		return err
	}
	s.entries[id] = entry
	return nil
}

// Remove deletes the Series at id.
func (s *Store) Remove(ctx context.Context, id ID) error {
	if _, ok := s.entries[id]; !ok {
		return apperr.NotFound("Series")
	}
	if err := s.adapter.Delete(ctx, int64(id)); err != nil {
		return err
	}
	delete(s.entries, id)
	return nil
}

func (s *Store) otherTitles(excludeID *ID) []string {
	titles := make([]string, 0, len(s.entries))
	for id, e := range s.entries {
		if excludeID != nil && id == *excludeID {
			continue
		}
		titles = append(titles, e.Title)
	}
	return titles
}

func validateEntry(entry Entry, existingTitles []string, kindsLookup kinds.Lookup) error {
	v := validate.New()
	v.Required("Title", entry.Title)
	v.UniqueCaseInsensitive("Title", entry.Title, existingTitles)
	v.Custom("Kind", kindsLookup == nil || !kindsLookup.Exists(entry.Kind), "not found")

	switch entry.Status {
	case Watching, OnHold, Completed:
		v.Positive("Progress", entry.Progress)
	case PlanToWatch:
		v.Custom("Progress", entry.Progress != 0, "must be 0 when status is PlanToWatch")
	default:
		v.Custom("Status", true, "not a recognised value")
	}

	v.Custom("Good", entry.Good == Yes && entry.Status != Completed, "status not 'Completed'")

	return v.Err()
}
