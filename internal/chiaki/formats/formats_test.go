// Copyright (c) 2026 camp-sub001 contributors.

package formats

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

	id, err := s.Add(ctx, Entry{Name: "BD"})
	require.NoError(t, err)

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, "BD", got.Name)
}

func TestAddRejectsDuplicateNameCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Add(ctx, Entry{Name: "BD"})
	require.NoError(t, err)

	_, err = s.Add(ctx, Entry{Name: "bd"})
	require.Error(t, err)
}

func TestRemoveUnknownFails(t *testing.T) {
	err := newTestStore(t).Remove(context.Background(), ID(42))
	require.Error(t, err)
}

func TestRemoveKnownSucceeds(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Add(ctx, Entry{Name: "WEB"})
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, id))
	_, ok := s.Get(id)
	assert.False(t, ok)
}
