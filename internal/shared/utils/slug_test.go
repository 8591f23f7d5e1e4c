package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Things Fall Apart":            "things-fall-apart",
		"  Petals of   Blood  ":        "petals-of-blood",
		"Les Misérables":               "les-miserables",
		"Nguyễn Nhật Ánh":              "nguyen-nhat-anh",
		"Dust: A Novel (2nd ed.)":      "dust-a-novel-2nd-ed",
		"--- already--hyphenated ---":  "already-hyphenated",
	}
	for in, want := range cases {
		assert.Equal(t, want, GenerateSlug(in), in)
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"dust": true, "dust-1": true}
	slug, err := UniqueSlug("dust", func(s string) (bool, error) { return taken[s], nil })
	require.NoError(t, err)
	assert.Equal(t, "dust-2", slug)

	_, err = UniqueSlug("dust", func(string) (bool, error) { return false, errors.New("db down") })
	assert.Error(t, err)
}
