// Copyright (c) 2026 camp-sub001 contributors.

package nadeshiko

// FileEntry is one (name, path) pair discovered on disk by the outer
// filesystem walker (internal/ena), offered to [ResolveUpdates].
type FileEntry struct {
	Name string
	Path string
}

// UpdateEntry is one release resolved from local files: the update
// pipeline marks Path watched/updated and advances the ledger watermark for
// CandidateID to Episode.
type UpdateEntry struct {
	Name        string
	Path        string
	Episode     int64
	CandidateID int64
}

// ResolveUpdates mirrors [ResolveDownloads]'s matching shape over a slice
// of already-discovered (name, path) pairs instead of a feed body: for each
// pair, find a matching candidate, extract an episode from the cleaned
// name, and accept it only if that candidate's CanUpdate holds.
func ResolveUpdates(files []FileEntry, matchers []Matcher) []UpdateEntry {
	var out []UpdateEntry

	for _, f := range files {
		if f.Name == "" {
			continue
		}
		matcher := firstRelevant(matchers, f.Name)
		if matcher == nil {
			continue
		}

		episode, ok := ExtractEpisode(matcher.Clean(f.Name))
		if !ok {
			continue
		}
		if !matcher.CanUpdate(episode) {
			continue
		}

		out = append(out, UpdateEntry{
			Name:        f.Name,
			Path:        f.Path,
			Episode:     episode,
			CandidateID: matcher.ID(),
		})
	}

	return out
}
