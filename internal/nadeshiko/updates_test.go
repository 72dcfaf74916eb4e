// Copyright (c) 2026 camp-sub001 contributors.

package nadeshiko

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/367718/camp-sub001/internal/chiaki/candidates"
)

func TestResolveUpdatesMatchesByName(t *testing.T) {
	matcher := NewCandidateMatcher(candidates.ID(1), candidates.Entry{Title: "Show", Quality: "720p"})
	files := []FileEntry{
		{Name: "[G] Show - 04 [720p].mkv", Path: "/media/show/04.mkv"},
		{Name: "[G] Other - 04 [720p].mkv", Path: "/media/other/04.mkv"},
	}

	entries := ResolveUpdates(files, []Matcher{matcher})
	require.Len(t, entries, 1)
	assert.Equal(t, int64(4), entries[0].Episode)
	assert.Equal(t, "/media/show/04.mkv", entries[0].Path)
}

func TestResolveUpdatesSkipsEmptyName(t *testing.T) {
	matcher := NewCandidateMatcher(candidates.ID(1), candidates.Entry{Title: "Show"})
	entries := ResolveUpdates([]FileEntry{{Name: "", Path: "/x"}}, []Matcher{matcher})
	assert.Empty(t, entries)
}

func TestResolveUpdatesSkipsWhenNoEpisodeExtracted(t *testing.T) {
	matcher := NewCandidateMatcher(candidates.ID(1), candidates.Entry{Title: "Show"})
	entries := ResolveUpdates([]FileEntry{{Name: "Show - Special", Path: "/x"}}, []Matcher{matcher})
	assert.Empty(t, entries)
}
