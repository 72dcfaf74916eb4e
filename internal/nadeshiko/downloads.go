// Copyright (c) 2026 camp-sub001 contributors.

package nadeshiko

import "github.com/367718/camp-sub001/internal/chikuwa"

// DownloadEntry is one release resolved from a feed body: the release
// pipeline fetches Link and advances the ledger watermark for CandidateID
// to Episode.
type DownloadEntry struct {
	Title       string
	Link        string
	Episode     int64
	CandidateID int64
}

// ResolveDownloads scans feedBody for successive <item>...</item> segments
// (literal, case-sensitive tag matching — no XML parser) and, for each
// item whose <title> matches one of matchers (tried in order), extracts an
// episode number and yields a [DownloadEntry] if that candidate can accept
// it.
//
// Items missing a title, missing a link, matching no candidate, or
// yielding no episode are skipped without error. A malformed (unbalanced)
// item tag terminates the walk gracefully rather than erroring.
func ResolveDownloads(feedBody string, matchers []Matcher) []DownloadEntry {
	var out []DownloadEntry

	pos := 0
	for {
		itemStart, itemEnd, ok := chikuwa.TagRange(feedBody, "item", pos)
		if !ok {
			break
		}
		item := feedBody[itemStart:itemEnd]
		pos = itemEnd

		title, _, ok := chikuwa.SubsliceRange(item, "title", 0)
		if !ok || title == "" {
			continue
		}
		link, _, ok := chikuwa.SubsliceRange(item, "link", 0)
		if !ok || link == "" {
			continue
		}

		matcher := firstRelevant(matchers, title)
		if matcher == nil {
			continue
		}

		episode, ok := ExtractEpisode(matcher.Clean(title))
		if !ok {
			continue
		}
		if !matcher.CanDownload(episode) {
			continue
		}

		out = append(out, DownloadEntry{
			Title:       title,
			Link:        link,
			Episode:     episode,
			CandidateID: matcher.ID(),
		})
	}

	return out
}

func firstRelevant(matchers []Matcher, title string) Matcher {
	for _, m := range matchers {
		if m.IsRelevant(title) {
			return m
		}
	}
	return nil
}
