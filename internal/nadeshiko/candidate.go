// Copyright (c) 2026 camp-sub001 contributors.

package nadeshiko

import (
	"github.com/367718/camp-sub001/internal/chiaki/candidates"
	"github.com/367718/camp-sub001/internal/chikuwa"
)

// Matcher is the capability set a release-matching rule must provide: the
// Go rendition of the original's trait-object dispatch (`Box<dyn
// Candidate>`), implemented here by [CandidateMatcher].
type Matcher interface {
	// IsRelevant reports whether title names a release this Matcher owns.
	IsRelevant(title string) bool
	// Clean strips the matcher's own title/group/quality substrings from
	// title before episode extraction sees it.
	Clean(title string) string
	// CanDownload reports whether episode has not already been downloaded.
	CanDownload(episode int64) bool
	// CanUpdate reports whether episode is acceptable for an update pass.
	CanUpdate(episode int64) bool
	// ID returns the owning Candidate's id.
	ID() int64
}

// CandidateMatcher wraps a [candidates.Entry] to implement [Matcher].
type CandidateMatcher struct {
	id     candidates.ID
	entry  candidates.Entry
	pieces []string
}

// NewCandidateMatcher builds a CandidateMatcher for id/entry.
func NewCandidateMatcher(id candidates.ID, entry candidates.Entry) *CandidateMatcher {
	return &CandidateMatcher{
		id:     id,
		entry:  entry,
		pieces: []string{entry.Title, entry.Group, entry.Quality},
	}
}

// IsRelevant reports whether title contains every one of the Candidate's
// title/group/quality substrings, folding ASCII case.
func (m *CandidateMatcher) IsRelevant(title string) bool {
	for _, piece := range m.pieces {
		if piece == "" {
			continue
		}
		if !chikuwa.InsensitiveContains(title, piece) {
			return false
		}
	}
	return true
}

// Clean removes the first occurrence of each of title/group/quality from
// title, so the episode extractor never mistakes a quality tag ("1080p")
// or a group tag for an episode number.
func (m *CandidateMatcher) Clean(title string) string {
	cleaned := title
	for _, piece := range m.pieces {
		if piece == "" {
			continue
		}
		cleaned = removeFirstFold(cleaned, piece)
	}
	return cleaned
}

// CanDownload reports whether episode is absent from the Candidate's
// downloaded set.
func (m *CandidateMatcher) CanDownload(episode int64) bool {
	for _, ep := range m.entry.Downloaded {
		if ep == episode {
			return false
		}
	}
	return true
}

// CanUpdate is unconditionally true for the default Candidate.
func (m *CandidateMatcher) CanUpdate(int64) bool { return true }

// ID returns the owning Candidate's id.
func (m *CandidateMatcher) ID() int64 { return int64(m.id) }

// removeFirstFold removes the first ASCII-case-insensitive occurrence of
// needle from haystack.
func removeFirstFold(haystack, needle string) string {
	if needle == "" {
		return haystack
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if chikuwa.InsensitiveEqual(haystack[i:i+len(needle)], needle) {
			return haystack[:i] + haystack[i+len(needle):]
		}
	}
	return haystack
}
