// Copyright (c) 2026 camp-sub001 contributors.

// Package validate provides a chainable Validator that collects field-level
// issues before returning a single [apperr.Error].
//
// # Architecture
//
// This package is used exclusively by chiaki's cross-entity validator (C5).
// It deliberately never short-circuits on the first failure: every entity's
// validation function runs every sub-check and reports them all together.
package validate

import (
	"strings"

	"github.com/367718/camp-sub001/internal/platform/apperr"
)

// Validator collects field-level validation issues via a fluent, chainable
// API.
//
// Validator is not safe for concurrent use; a new instance must be created
// per validation call.
type Validator struct {
	issues []apperr.Issue
}

// New returns an empty Validator ready for chaining.
func New() *Validator {
	return &Validator{}
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "must not be empty")
	}
	return v
}

// NonNegative fails if value is negative.
func (v *Validator) NonNegative(field string, value int64) *Validator {
	if value < 0 {
		v.add(field, "must be >= 0")
	}
	return v
}

// Positive fails if value is not strictly positive.
func (v *Validator) Positive(field string, value int64) *Validator {
	if value <= 0 {
		v.add(field, "must be > 0")
	}
	return v
}

// UniqueCaseInsensitive fails if value case-insensitively (ASCII-only) equals
// any of existing.
func (v *Validator) UniqueCaseInsensitive(field, value string, existing []string) *Validator {
	for _, other := range existing {
		if equalFoldASCII(value, other) {
			v.add(field, "already defined")
			return v
		}
	}
	return v
}

// OneOf fails if value is not in the allowed set.
func (v *Validator) OneOf(field string, value int, allowed ...int) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, "must be one of the recognised values")
	return v
}

// Custom adds an issue with a custom message if failed is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// HasIssues reports whether any rule has failed so far.
func (v *Validator) HasIssues() bool {
	return len(v.issues) > 0
}

// Err returns a [apperr.Error] of kind Validation if any rule failed, or nil.
func (v *Validator) Err() error {
	if len(v.issues) == 0 {
		return nil
	}
	return apperr.Validation(v.issues...)
}

// add appends an issue to the internal slice.
func (v *Validator) add(field, message string) {
	v.issues = append(v.issues, apperr.Issue{Field: field, Message: message})
}

// equalFoldASCII reports whether a and b are equal under ASCII-only
// case-folding, matching the spec's explicit "case-insensitively only within
// the ASCII range" scope (see SPEC_FULL.md §9 open questions).
func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if toLowerASCII(a[i]) != toLowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func toLowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
