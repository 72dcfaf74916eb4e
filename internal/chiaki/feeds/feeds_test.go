// Copyright (c) 2026 camp-sub001 contributors.

package feeds

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/367718/camp-sub001/internal/chiaki/persistence"
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

func TestAddAndGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Add(ctx, Entry{URL: "https://example.test/feed.xml"})
	require.NoError(t, err)

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, "https://example.test/feed.xml", got.URL)
}

func TestAddRejectsDuplicateURLCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Add(ctx, Entry{URL: "https://example.test/Feed.xml"})
	require.NoError(t, err)

	_, err = s.Add(ctx, Entry{URL: "https://example.test/feed.xml"})
	require.Error(t, err)
}

func TestEditUnknownFails(t *testing.T) {
	err := newTestStore(t).Edit(context.Background(), ID(1), Entry{URL: "https://x.test"})
	require.Error(t, err)
}
