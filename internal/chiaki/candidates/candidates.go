// Copyright (c) 2026 camp-sub001 contributors.

/*
Package candidates is the entity store for Candidates: the single active
release-matching rule attached to a Series with status Watching. At most one
Candidate may claim a given Series.
*/
package candidates

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/367718/camp-sub001/internal/chiaki/persistence"
	"github.com/367718/camp-sub001/internal/chiaki/series"
	"github.com/367718/camp-sub001/internal/platform/apperr"
	"github.com/367718/camp-sub001/internal/platform/validate"
)

// ID identifies a Candidate row.
type ID int64

// Current reports whether a Candidate is the one currently being downloaded
// for its Series.
type Current int

const (
	No Current = iota + 1
	Yes
)

// Entry is one Candidate's mutable fields.
type Entry struct {
	Series     series.ID
	Title      string
	Group      string
	Quality    string
	Offset     int64
	Current    Current
	Downloaded []int64
}

// Row pairs an ID with its Entry, as returned by [Store.Iter].
type Row struct {
	ID    ID
	Entry Entry
}

type schema struct{}

func (schema) CreateTable() string {
	return `CREATE TABLE IF NOT EXISTS candidates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		series INTEGER NOT NULL UNIQUE,
		title TEXT NOT NULL UNIQUE,
		grp TEXT NOT NULL,
		quality TEXT NOT NULL,
		offset INTEGER NOT NULL,
		current INTEGER NOT NULL,
		downloaded TEXT NOT NULL
	)`
}
func (schema) SelectAll() string {
	return `SELECT id, series, title, grp, quality, offset, current, downloaded FROM candidates`
}
func (schema) Count() string { return `SELECT COUNT(*) FROM candidates` }
func (schema) InsertRow() string {
	return `INSERT INTO candidates (series, title, grp, quality, offset, current, downloaded) VALUES (?, ?, ?, ?, ?, ?, ?)`
}
func (schema) UpdateRow() string {
	return `UPDATE candidates SET series = ?, title = ?, grp = ?, quality = ?, offset = ?, current = ?, downloaded = ? WHERE id = ?`
}
func (schema) DeleteRow() string { return `DELETE FROM candidates WHERE id = ?` }

type binder struct{}

func (binder) InsertArgs(e Entry) []any {
	return []any{int64(e.Series), e.Title, e.Group, e.Quality, e.Offset, int(e.Current), encodeDownloaded(e.Downloaded)}
}
func (binder) UpdateArgs(id int64, e Entry) []any {
	return []any{int64(e.Series), e.Title, e.Group, e.Quality, e.Offset, int(e.Current), encodeDownloaded(e.Downloaded), id}
}

type rowMaterializer struct{}

func (rowMaterializer) Materialize(row persistence.Scanner) (int64, Entry, error) {
	var id int64
	var e Entry
	var seriesID int64
	var current int
	var downloaded string
	if err := row.Scan(&id, &seriesID, &e.Title, &e.Group, &e.Quality, &e.Offset, &current, &downloaded); err != nil {
		return 0, Entry{}, err
	}
	e.Series = series.ID(seriesID)
	e.Current = Current(current)
	dl, err := decodeDownloaded(downloaded)
	if err != nil {
		return 0, Entry{}, err
	}
	e.Downloaded = dl
	return id, e, nil
}

// encodeDownloaded renders a sorted-by-insertion comma-joined decimal list;
// an empty slice encodes as the empty string (see SPEC_FULL.md §6).
func encodeDownloaded(episodes []int64) string {
	parts := make([]string, len(episodes))
	for i, ep := range episodes {
		parts[i] = strconv.FormatInt(ep, 10)
	}
	return strings.Join(parts, ",")
}

// decodeDownloaded parses the comma-joined form, trimming each token and
// skipping tokens that do not parse as integers.
func decodeDownloaded(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// Store owns the in-memory Id -> Entry mapping for Candidates, plus the
// Series -> Candidate claim index it hands to [series.Store.SetClaims].
type Store struct {
	adapter *persistence.Adapter[Entry]
	entries map[ID]Entry
	claims  map[series.ID]ID
}

// NewAdapter builds the persistence.Adapter this package's store needs,
// bound to an already-open database handle.
func NewAdapter(db *sql.DB) *persistence.Adapter[Entry] {
	return persistence.New[Entry](db, schema{}, binder{}, rowMaterializer{})
}

// NewStore constructs a Store bound to adapter. Call [Store.Load] before
// use.
func NewStore(adapter *persistence.Adapter[Entry]) *Store {
	return &Store{adapter: adapter, entries: make(map[ID]Entry), claims: make(map[series.ID]ID)}
}

// Load creates the backing table if missing and streams every row into the
// in-memory mapping.
func (s *Store) Load(ctx context.Context) error {
	if err := s.adapter.CreateTable(ctx); err != nil {
		return err
	}
	if err := s.adapter.Select(ctx, func(id int64, e Entry) error {
		s.entries[ID(id)] = e
		s.claims[e.Series] = ID(id)
		return nil
	}); err != nil {
		return err
	}
	return nil
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

// Claims returns the Series -> Candidate claim index, for wiring into
// [series.Store.SetClaims]. The map is the store's own, so later Add, Edit
// and Remove calls are visible through it.
func (s *Store) Claims() map[series.ID]ID {
	return s.claims
}

// Add validates and persists a new Candidate, returning its assigned id.
func (s *Store) Add(ctx context.Context, entry Entry, seriesLookup series.Lookup) (ID, error) {
	if err := validateEntry(nil, entry, s.otherTitles(nil), s.claims, seriesLookup); err != nil {
		return 0, err
	}
	id, err := s.adapter.Insert(ctx, entry)
	if err != nil {
		return 0, err
	}
	s.entries[ID(id)] = entry
	s.claims[entry.Series] = ID(id)
	return ID(id), nil
}

// Edit validates and replaces the Candidate at id.
func (s *Store) Edit(ctx context.Context, id ID, entry Entry, seriesLookup series.Lookup) error {
	existing, ok := s.entries[id]
	if !ok {
		return apperr.NotFound("Candidate")
	}
	if err := validateEntry(&id, entry, s.otherTitles(&id), s.claims, seriesLookup); err != nil {
		return err
	}
	if err := s.adapter.Update(ctx, int64(id), entry); err != nil {
		return err
	}
	if existing.Series != entry.Series {
		delete(s.claims, existing.Series)
	}
	s.entries[id] = entry
	s.claims[entry.Series] = id
	return nil
}

// Remove deletes the Candidate at id.
func (s *Store) Remove(ctx context.Context, id ID) error {
	existing, ok := s.entries[id]
	if !ok {
		return apperr.NotFound("Candidate")
	}
	if err := s.adapter.Delete(ctx, int64(id)); err != nil {
		return err
	}
	delete(s.entries, id)
	delete(s.claims, existing.Series)
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

func validateEntry(id *ID, entry Entry, existingTitles []string, claims map[series.ID]ID, seriesLookup series.Lookup) error {
	v := validate.New()
	v.Required("Title", entry.Title)
	v.UniqueCaseInsensitive("Title", entry.Title, existingTitles)
	v.NonNegative("Offset", entry.Offset)

	if seriesLookup == nil {
		v.Custom("Series", true, "not found")
	} else if seriesEntry, ok := seriesLookup.Get(entry.Series); !ok {
		v.Custom("Series", true, "not found")
	} else {
		v.Custom("Series", seriesEntry.Status != series.Watching, "status not 'Watching'")
	}

	if claimant, claimed := claims[entry.Series]; claimed && (id == nil || claimant != *id) {
		v.Custom("Series", true, "already claimed by another Candidate")
	}

	for _, ep := range entry.Downloaded {
		if ep <= 0 {
			v.Custom("Downloaded", true, "every episode must be > 0")
			break
		}
	}
	v.Custom("Downloaded", entry.Current == No && len(entry.Downloaded) > 0, "must be empty when Current is No")

	return v.Err()
}
