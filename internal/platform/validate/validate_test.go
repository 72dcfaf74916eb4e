// Copyright (c) 2026 camp-sub001 contributors.

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorCollectsAllIssues(t *testing.T) {
	v := New()
	v.Required("title", "").
		Positive("offset", -1).
		NonNegative("progress", -5)

	err := v.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title:")
	assert.Contains(t, err.Error(), "offset:")
	assert.Contains(t, err.Error(), "progress:")
}

func TestValidatorPassesWhenNoIssues(t *testing.T) {
	v := New()
	v.Required("title", "ok").NonNegative("progress", 0)
	assert.NoError(t, v.Err())
	assert.False(t, v.HasIssues())
}

func TestUniqueCaseInsensitive(t *testing.T) {
	v := New()
	v.UniqueCaseInsensitive("name", "TV", []string{"tv", "Movie"})
	err := v.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already defined")
}

func TestUniqueCaseInsensitiveDistinctPasses(t *testing.T) {
	v := New()
	v.UniqueCaseInsensitive("name", "OVA", []string{"tv", "movie"})
	assert.NoError(t, v.Err())
}

func TestOneOf(t *testing.T) {
	v := New()
	v.OneOf("status", 9, 1, 2, 3, 4)
	require.Error(t, v.Err())

	v2 := New()
	v2.OneOf("status", 2, 1, 2, 3, 4)
	assert.NoError(t, v2.Err())
}
