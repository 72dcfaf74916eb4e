// Copyright (c) 2026 camp-sub001 contributors.

package nadeshiko

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/367718/camp-sub001/internal/chiaki/candidates"
)

func newShowMatcher(downloaded []int64, current candidates.Current) *CandidateMatcher {
	return NewCandidateMatcher(candidates.ID(1), candidates.Entry{
		Title:      "Show",
		Group:      "Group",
		Quality:    "720p",
		Current:    current,
		Downloaded: downloaded,
	})
}

func TestIsRelevantRequiresAllPiecesPresent(t *testing.T) {
	m := newShowMatcher(nil, candidates.Yes)
	assert.True(t, m.IsRelevant("[Group] Show - 10 [720p]"))
	assert.False(t, m.IsRelevant("[Group] Other - 10 [720p]"))
}

func TestIsRelevantIsCaseInsensitive(t *testing.T) {
	m := newShowMatcher(nil, candidates.Yes)
	assert.True(t, m.IsRelevant("[group] SHOW - 10 [720P]"))
}

func TestCleanRemovesKnownSubstrings(t *testing.T) {
	m := newShowMatcher(nil, candidates.Yes)
	cleaned := m.Clean("[Group] Show - 11 [720p]")
	ep, ok := ExtractEpisode(cleaned)
	require.True(t, ok)
	assert.Equal(t, int64(11), ep)
}

func TestCanDownloadRejectsAlreadyDownloadedEpisode(t *testing.T) {
	m := newShowMatcher([]int64{10}, candidates.Yes)
	assert.False(t, m.CanDownload(10))
	assert.True(t, m.CanDownload(11))
}

func TestCanUpdateAlwaysTrue(t *testing.T) {
	m := newShowMatcher(nil, candidates.No)
	assert.True(t, m.CanUpdate(1))
	assert.True(t, m.CanUpdate(999))
}

func TestIDReturnsOwningCandidateID(t *testing.T) {
	m := NewCandidateMatcher(candidates.ID(42), candidates.Entry{Title: "Show"})
	assert.Equal(t, int64(42), m.ID())
}
