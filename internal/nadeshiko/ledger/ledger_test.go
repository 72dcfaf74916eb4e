// Copyright (c) 2026 camp-sub001 contributors.

package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	l, err := Load(filepath.Join(dir, "rules.ck"))
	require.NoError(t, err)
	assert.Empty(t, l.Iter())
}

func TestInsertRejectsDuplicateCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	l, err := Load(filepath.Join(dir, "rules.ck"))
	require.NoError(t, err)

	require.NoError(t, l.Insert("[G] Show"))
	err = l.Insert("[g] show")
	require.Error(t, err)
}

func TestUpdateMissingMatcherFails(t *testing.T) {
	dir := t.TempDir()
	l, err := Load(filepath.Join(dir, "rules.ck"))
	require.NoError(t, err)

	err = l.Update("missing", 5)
	require.Error(t, err)
}

func TestDeleteMissingMatcherFails(t *testing.T) {
	dir := t.TempDir()
	l, err := Load(filepath.Join(dir, "rules.ck"))
	require.NoError(t, err)

	err = l.Delete("missing")
	require.Error(t, err)
}

func TestCommitThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.ck")

	l, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, l.Insert("[G] Show"))
	require.NoError(t, l.Update("[G] Show", 10))
	require.NoError(t, l.Commit())

	reloaded, err := Load(path)
	require.NoError(t, err)
	w, ok := reloaded.Get("[G] Show")
	require.True(t, ok)
	assert.Equal(t, uint64(10), w)
}

func TestLedgerMonotonicityScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.ck")

	l, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, l.Insert("[G] Show"))
	require.NoError(t, l.Update("[G] Show", 10))
	require.NoError(t, l.Commit())

	reloaded, err := Load(path)
	require.NoError(t, err)
	watermark, ok := reloaded.Get("[G] Show")
	require.True(t, ok)
	assert.Equal(t, uint64(10), watermark)

	require.NoError(t, reloaded.Update("[G] Show", 11))
	require.NoError(t, reloaded.Commit())

	restarted, err := Load(path)
	require.NoError(t, err)
	watermark, ok = restarted.Get("[G] Show")
	require.True(t, ok)
	assert.Equal(t, uint64(11), watermark)
}

func TestCommitDoesNotLeaveTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.ck")

	l, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, l.Insert("[G] Show"))
	require.NoError(t, l.Commit())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "rules.ck", entries[0].Name())
}

func TestIterPreservesInsertionOrder(t *testing.T) {
	dir := t.TempDir()
	l, err := Load(filepath.Join(dir, "rules.ck"))
	require.NoError(t, err)

	require.NoError(t, l.Insert("b"))
	require.NoError(t, l.Insert("a"))

	records := l.Iter()
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].Matcher)
	assert.Equal(t, "a", records[1].Matcher)
}
