// Copyright (c) 2026 camp-sub001 contributors.

package candidates

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/367718/camp-sub001/internal/chiaki/persistence"
	"github.com/367718/camp-sub001/internal/chiaki/series"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := persistence.Open(context.Background(), "file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewStore(NewAdapter(db))
	require.NoError(t, s.Load(context.Background()))
	return s
}

type fakeSeriesLookup struct {
	entries map[series.ID]series.Entry
}

func (f fakeSeriesLookup) Get(id series.ID) (series.Entry, bool) {
	e, ok := f.entries[id]
	return e, ok
}
func (f fakeSeriesLookup) Claimed(series.ID) bool { return false }

func TestAddAcceptsCandidateForWatchingSeries(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	lookup := fakeSeriesLookup{entries: map[series.ID]series.Entry{
		7: {Title: "X", Status: series.Watching, Progress: 1},
	}}

	id, err := s.Add(ctx, Entry{Series: series.ID(7), Title: "X", Current: Yes, Downloaded: []int64{3}}, lookup)
	require.NoError(t, err)
	assert.Positive(t, int64(id))
}

func TestAddRejectsNonWatchingSeries(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	lookup := fakeSeriesLookup{entries: map[series.ID]series.Entry{
		7: {Title: "X", Status: series.Completed, Progress: 12},
	}}

	_, err := s.Add(ctx, Entry{Series: series.ID(7), Title: "X", Current: Yes, Downloaded: []int64{3}}, lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Series: status not 'Watching'")
}

func TestAddRejectsSecondCandidateForSameSeries(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	lookup := fakeSeriesLookup{entries: map[series.ID]series.Entry{
		7: {Title: "X", Status: series.Watching, Progress: 1},
	}}

	_, err := s.Add(ctx, Entry{Series: series.ID(7), Title: "first"}, lookup)
	require.NoError(t, err)

	_, err = s.Add(ctx, Entry{Series: series.ID(7), Title: "second"}, lookup)
	require.Error(t, err)
}

func TestAddRejectsNegativeOffset(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	lookup := fakeSeriesLookup{entries: map[series.ID]series.Entry{
		7: {Title: "X", Status: series.Watching, Progress: 1},
	}}

	_, err := s.Add(ctx, Entry{Series: series.ID(7), Title: "X", Offset: -1}, lookup)
	require.Error(t, err)
}

func TestAddRejectsZeroDownloadedEpisode(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	lookup := fakeSeriesLookup{entries: map[series.ID]series.Entry{
		7: {Title: "X", Status: series.Watching, Progress: 1},
	}}

	_, err := s.Add(ctx, Entry{Series: series.ID(7), Title: "X", Current: Yes, Downloaded: []int64{0}}, lookup)
	require.Error(t, err)
}

func TestAddRejectsDownloadedWhenCurrentIsNo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	lookup := fakeSeriesLookup{entries: map[series.ID]series.Entry{
		7: {Title: "X", Status: series.Watching, Progress: 1},
	}}

	_, err := s.Add(ctx, Entry{Series: series.ID(7), Title: "X", Current: No, Downloaded: []int64{5}}, lookup)
	require.Error(t, err)
}

func TestDownloadedRoundTripsThroughEncoding(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	lookup := fakeSeriesLookup{entries: map[series.ID]series.Entry{
		7: {Title: "X", Status: series.Watching, Progress: 1},
	}}

	id, err := s.Add(ctx, Entry{Series: series.ID(7), Title: "X", Current: Yes, Downloaded: []int64{3, 10, 11}}, lookup)
	require.NoError(t, err)

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, []int64{3, 10, 11}, got.Downloaded)
}
