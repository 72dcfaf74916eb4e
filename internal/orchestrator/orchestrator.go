// Copyright (c) 2026 camp-sub001 contributors.

/*
Package orchestrator is the single flow of control the rest of SPEC_FULL.md
assumes: it owns every entity store and the ledger, and is the one place
that runs a download pass end to end. Both internal/ayano's POST /run
handler and internal/aoi's remote-control listener call through the same
Orchestrator.Run, satisfying the "one orchestration entry point" design
goal (see SPEC_FULL.md §6).

A single mutex serializes every call: the core's stores are not
goroutine-safe on their own (see SPEC_FULL.md §5), so the orchestrator is
the seam where ayano's concurrent HTTP goroutines collapse back down to one
logical thread.
*/
package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/367718/camp-sub001/internal/akari"
	"github.com/367718/camp-sub001/internal/chiaki/candidates"
	"github.com/367718/camp-sub001/internal/chiaki/feeds"
	"github.com/367718/camp-sub001/internal/chiaki/formats"
	"github.com/367718/camp-sub001/internal/chiaki/kinds"
	"github.com/367718/camp-sub001/internal/chiaki/series"
	"github.com/367718/camp-sub001/internal/chikuwa"
	"github.com/367718/camp-sub001/internal/ena"
	"github.com/367718/camp-sub001/internal/nadeshiko"
	"github.com/367718/camp-sub001/internal/nadeshiko/ledger"
	"github.com/367718/camp-sub001/internal/platform/apperr"
)

// Fetcher is the subset of [akari.Client] the orchestrator depends on.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Orchestrator wires the entity stores, the ledger, and the download
// pipeline's side effects (HTTP fetch + filesystem write) into one
// sequential operation.
type Orchestrator struct {
	mu sync.Mutex

	Kinds      *kinds.Store
	Formats    *formats.Store
	Feeds      *feeds.Store
	Series     *series.Store
	Candidates *candidates.Store
	Ledger     *ledger.Ledger

	Fetcher     Fetcher
	DownloadDir string
}

// New constructs an Orchestrator. Call [Orchestrator.Run] to perform one
// download pass.
func New(k *kinds.Store, f *formats.Store, fe *feeds.Store, se *series.Store, c *candidates.Store, l *ledger.Ledger, fetcher Fetcher, downloadDir string) *Orchestrator {
	return &Orchestrator{
		Kinds: k, Formats: f, Feeds: fe, Series: se, Candidates: c, Ledger: l,
		Fetcher: fetcher, DownloadDir: downloadDir,
	}
}

// RunResult summarizes one download pass.
type RunResult struct {
	Downloaded int
	Skipped    int
	Errors     []string
}

// Run fetches every configured feed, resolves matching candidates via
// nadeshiko, and for every resolved download: fetches the release over
// HTTP, writes it to DownloadDir under a sanitized filename using
// create-new semantics, then advances the ledger watermark — only after
// that write durably completes (see SPEC_FULL.md §4.6).
//
// Per-item failures are recorded in RunResult.Errors and do not abort the
// pass; a feed-level fetch failure does abort that feed (but not others).
func (o *Orchestrator) Run(ctx context.Context) (RunResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var result RunResult

	matchers, tags := o.buildMatchers()

	for _, feedRow := range o.Feeds.Iter() {
		body, err := o.Fetcher.Fetch(ctx, feedRow.Entry.URL)
		if err != nil {
			result.Errors = append(result.Errors, "feed "+feedRow.Entry.URL+": "+err.Error())
			continue
		}

		entries := nadeshiko.ResolveDownloads(string(body), matchers)
		for _, entry := range entries {
			downloaded, err := o.downloadOne(ctx, entry, tags[entry.CandidateID])
			if err != nil {
				result.Errors = append(result.Errors, entry.Title+": "+err.Error())
				continue
			}
			if !downloaded {
				result.Skipped++
				continue
			}
			result.Downloaded++
		}
	}

	return result, nil
}

// ScanResult summarizes one update pass.
type ScanResult struct {
	Updated int
	Skipped int
	Errors  []string
}

// Scan walks DownloadDir for already-downloaded release files (C7/internal
// ena), resolves each against the stored Candidates via
// nadeshiko.ResolveUpdates, and for every accepted match: marks the file
// watched so a later Scan does not re-offer it, then advances the ledger
// watermark under the same forward-only guard Run uses (see
// SPEC_FULL.md §4.7).
//
// Per-item failures are recorded in ScanResult.Errors and do not abort the
// pass.
func (o *Orchestrator) Scan(ctx context.Context) (ScanResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var result ScanResult

	files, err := ena.Walk(o.DownloadDir)
	if err != nil {
		return result, err
	}

	matchers, tags := o.buildMatchers()

	for _, entry := range nadeshiko.ResolveUpdates(files, matchers) {
		updated, err := o.updateOne(entry, tags[entry.CandidateID])
		if err != nil {
			result.Errors = append(result.Errors, entry.Name+": "+err.Error())
			continue
		}
		if !updated {
			result.Skipped++
			continue
		}
		result.Updated++
	}

	return result, nil
}

// updateOne marks entry's file watched and advances tag's watermark,
// subject to the same forward-only gate downloadOne applies. It reports
// false (with a nil error) when entry.Episode does not move the watermark
// forward.
func (o *Orchestrator) updateOne(entry nadeshiko.UpdateEntry, tag string) (bool, error) {
	if watermark, ok := o.Ledger.Get(tag); ok && entry.Episode <= int64(watermark) {
		return false, nil
	}

	if err := ena.Mark(entry.Path); err != nil {
		return false, err
	}

	if err := o.advanceWatermark(tag, entry.Episode); err != nil {
		return false, err
	}
	return true, nil
}

// buildMatchers returns one Matcher per stored Candidate, plus the stable
// ledger matcher tag for each candidate id — the tag identifies the
// candidate itself ("[Group] Title"), not any one release, so the
// watermark advances monotonically across episodes (see SPEC_FULL.md
// §4.8).
func (o *Orchestrator) buildMatchers() ([]nadeshiko.Matcher, map[int64]string) {
	rows := o.Candidates.Iter()
	matchers := make([]nadeshiko.Matcher, 0, len(rows))
	tags := make(map[int64]string, len(rows))
	for _, row := range rows {
		matchers = append(matchers, nadeshiko.NewCandidateMatcher(row.ID, row.Entry))
		tags[int64(row.ID)] = matcherTag(row.Entry)
	}
	return matchers, tags
}

func matcherTag(entry candidates.Entry) string {
	if entry.Group == "" {
		return entry.Title
	}
	return chikuwa.Concat("[", entry.Group, "] ", entry.Title)
}

// downloadOne fetches and writes entry's release, then advances tag's
// watermark — but only if entry.Episode is past the watermark already on
// record. It reports false (with a nil error) when the episode was already
// downloaded or superseded, so the caller can distinguish a skip from an
// actual download.
func (o *Orchestrator) downloadOne(ctx context.Context, entry nadeshiko.DownloadEntry, tag string) (bool, error) {
	if watermark, ok := o.Ledger.Get(tag); ok && entry.Episode <= int64(watermark) {
		return false, nil
	}

	body, err := o.Fetcher.Fetch(ctx, entry.Link)
	if err != nil {
		return false, err
	}

	name := chikuwa.SanitizeFilename(entry.Title) + ".torrent"
	path := filepath.Join(o.DownloadDir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return false, apperr.IO("create download file "+path, err)
	}
	if _, err := f.Write(body); err != nil {
		f.Close()
		return false, apperr.IO("write download file "+path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return false, apperr.IO("sync download file "+path, err)
	}
	if err := f.Close(); err != nil {
		return false, apperr.IO("close download file "+path, err)
	}

	if err := o.advanceWatermark(tag, entry.Episode); err != nil {
		return false, err
	}
	return true, nil
}

// advanceWatermark only ever moves tag's watermark forward: it is a no-op if
// episode does not exceed the watermark already on record, so a caller
// cannot regress a watermark by replaying an older episode.
func (o *Orchestrator) advanceWatermark(tag string, episode int64) error {
	current, ok := o.Ledger.Get(tag)
	if !ok {
		if err := o.Ledger.Insert(tag); err != nil {
			return err
		}
	} else if episode <= int64(current) {
		return nil
	}

	if err := o.Ledger.Update(tag, uint64(episode)); err != nil {
		return err
	}
	return o.Ledger.Commit()
}
