// Copyright (c) 2026 camp-sub001 contributors.

/*
Package ledger implements the Rules Ledger (C8): a serialized sequence of
{matcher, watermark} records persisted as a flat binary file, committed via
a write-temp-then-rename protocol so the live file is never observed in a
partially-written state.
*/
package ledger

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	"github.com/367718/camp-sub001/internal/chikuwa"
	"github.com/367718/camp-sub001/internal/platform/apperr"
)

// Record is one ledger entry: the matcher tag it watermarks and the latest
// episode watermark recorded for it.
type Record struct {
	Matcher   string
	Watermark uint64
}

// Ledger is the in-memory sequence of [Record]s for one ledger file,
// preserving insertion order.
type Ledger struct {
	path    string
	order   []string
	records map[string]uint64
}

// Load reads the ledger file at path. A missing file is treated as an
// empty ledger (the file is created on the first [Ledger.Commit]).
func Load(path string) (*Ledger, error) {
	l := &Ledger{path: path, records: make(map[string]uint64)}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, apperr.IO("open ledger file", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		tag, watermark, err := readRecord(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.Format("ledger file: " + err.Error())
		}
		l.order = append(l.order, tag)
		l.records[foldKey(tag)] = watermark
	}
	return l, nil
}

func readRecord(r *bufio.Reader) (tag string, watermark uint64, err error) {
	var tagLen uint64
	if err := binary.Read(r, binary.LittleEndian, &tagLen); err != nil {
		return "", 0, err
	}
	buf := make([]byte, tagLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", 0, err
	}
	if err := binary.Read(r, binary.LittleEndian, &watermark); err != nil {
		return "", 0, err
	}
	return string(buf), watermark, nil
}

func writeRecord(w io.Writer, tag string, watermark uint64) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(tag))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, tag); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, watermark)
}

func foldKey(tag string) string {
	b := []byte(tag)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Iter returns a snapshot of every record, in insertion order.
func (l *Ledger) Iter() []Record {
	out := make([]Record, 0, len(l.order))
	for _, tag := range l.order {
		out = append(out, Record{Matcher: tag, Watermark: l.records[foldKey(tag)]})
	}
	return out
}

// Get returns the watermark for matcher, or ok=false if absent.
func (l *Ledger) Get(matcher string) (uint64, bool) {
	w, ok := l.records[foldKey(matcher)]
	return w, ok
}

// Insert adds matcher at watermark 0. Fails (KindDuplicate) if matcher is
// already present, case-insensitively.
func (l *Ledger) Insert(matcher string) error {
	key := foldKey(matcher)
	if _, ok := l.records[key]; ok {
		return apperr.Duplicate("ledger: matcher already present")
	}
	l.records[key] = 0
	l.order = append(l.order, matcher)
	return nil
}

// Update sets matcher's watermark to newWatermark. Fails (KindNotFound) if
// matcher is absent.
func (l *Ledger) Update(matcher string, newWatermark uint64) error {
	key := foldKey(matcher)
	if _, ok := l.records[key]; !ok {
		return apperr.NotFound("ledger matcher")
	}
	l.records[key] = newWatermark
	return nil
}

// Delete removes matcher. Fails (KindNotFound) if absent.
func (l *Ledger) Delete(matcher string) error {
	key := foldKey(matcher)
	if _, ok := l.records[key]; !ok {
		return apperr.NotFound("ledger matcher")
	}
	delete(l.records, key)
	for i, tag := range l.order {
		if foldKey(tag) == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return nil
}

// Commit writes the full current sequence to a sibling temporary path and
// renames it over the live file. The temporary file is removed if any step
// before the rename fails.
func (l *Ledger) Commit() error {
	dir := filepath.Dir(l.path)
	tmpPath, err := chikuwa.EphemeralPath(dir, "camp-ledger", ".tmp")
	if err != nil {
		return apperr.IO("generate ledger temp path", err)
	}
	defer chikuwa.RemoveIfExists(tmpPath)

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return apperr.IO("create ledger temp file", err)
	}

	w := bufio.NewWriter(f)
	for _, tag := range l.order {
		if err := writeRecord(w, tag, l.records[foldKey(tag)]); err != nil {
			f.Close()
			return apperr.IO("write ledger record", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return apperr.IO("flush ledger temp file", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return apperr.IO("sync ledger temp file", err)
	}
	if err := f.Close(); err != nil {
		return apperr.IO("close ledger temp file", err)
	}

	if err := os.Rename(tmpPath, l.path); err != nil {
		return apperr.IO("rename ledger temp file over live file", err)
	}
	return nil
}
