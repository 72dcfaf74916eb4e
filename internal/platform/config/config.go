// Copyright (c) 2026 camp-sub001 contributors.

// Package config loads the line-oriented "rin" configuration file: a plain
// key = value\r\n format read from a file sibling to the running executable,
// sharing its base name with a ".rn" extension.
//
// This is deliberately not an env-var loader: the toolkit ships as a single
// binary next to a handful of on-disk stores (SQL database, binary ledger,
// download folder), and operators edit one file rather than exporting
// environment variables. See DESIGN.md for why no third-party parsing
// library was substituted here.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/367718/camp-sub001/internal/platform/apperr"
)

// Known keys of the ".rn" file. cmd/camp reads KeyFolder, KeyAddress,
// KeyName and KeyBind; KeyRoot, KeyFlag and KeyCommand are recognised names
// that no code in this module reads. The core itself never reads a Config
// directly — it only receives the paths/values the caller resolves from one.
const (
	KeyFolder  = "folder"  // download destination directory
	KeyAddress = "address" // ayano local HTTP bind address, e.g. 127.0.0.1:8487
	KeyName    = "name"    // SQL database file name, sibling to the executable
	KeyBind    = "bind"    // aoi remote-control listener address
	KeyRoot    = "root"    // media root for the file scanner; not read
	KeyFlag    = "flag"    // marker name for the file scanner; not read (ena always writes a ".watched" sidecar)
	KeyCommand = "command" // external command to run after a pass; not read
)

// Config holds the key/value pairs parsed from a ".rn" file; when a key
// repeats, its last value is kept.
type Config struct {
	values map[string]string
}

// Load reads the configuration file sibling to the running executable,
// sharing its base name with a ".rn" extension.
func Load() (*Config, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, apperr.IO("resolve executable path", err)
	}
	path := strings.TrimSuffix(exe, filepath.Ext(exe)) + ".rn"
	return LoadFile(path)
}

// LoadFile parses the ".rn" file at path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.IO("open config file", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads key = value pairs, one per line, from r.
//
// Lines are CRLF- or LF-terminated; blank lines and lines beginning with '#'
// are ignored. A line lacking '=' is a [apperr.KindFormat] error.
func Parse(r io.Reader) (*Config, error) {
	c := &Config{values: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx < 0 {
			return nil, apperr.Format(fmt.Sprintf("config line %d: missing '='", lineNo))
		}

		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if key == "" {
			return nil, apperr.Format(fmt.Sprintf("config line %d: empty key", lineNo))
		}
		c.values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, apperr.IO("read config file", err)
	}

	return c, nil
}

// Get returns the raw value for key, or ok=false if it was never set.
func (c *Config) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// String returns the value for key, or fallback if unset.
func (c *Config) String(key, fallback string) string {
	if v, ok := c.values[key]; ok {
		return v
	}
	return fallback
}

// Require returns the value for key, or a [apperr.KindFormat] error naming
// the missing key.
func (c *Config) Require(key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", apperr.Format(fmt.Sprintf("config: missing required key %q", key))
	}
	return v, nil
}

// Int parses the value for key as a base-10 integer, or returns fallback if
// key is unset.
func (c *Config) Int(key string, fallback int) (int, error) {
	v, ok := c.values[key]
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperr.Format(fmt.Sprintf("config: key %q is not an integer: %q", key, v))
	}
	return n, nil
}
