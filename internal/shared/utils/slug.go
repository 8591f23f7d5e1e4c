package utils

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9-]+`)
	repeatedHyphen = regexp.MustCompile(`-+`)
)

// GenerateSlug turns a title into a URL slug: "Things Fall Apart (2nd éd.)" -> "things-fall-apart-2nd-ed"
func GenerateSlug(input string) string {
	lower := strings.ToLower(RemoveDiacritics(input))
	hyphenated := strings.Join(strings.Fields(lower), "-")
	cleaned := nonSlugChars.ReplaceAllString(hyphenated, "")
	normalized := repeatedHyphen.ReplaceAllString(cleaned, "-")
	return strings.Trim(normalized, "-")
}

// RemoveDiacritics strips combining marks after NFD decomposition.
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, input)
	if err != nil {
		return input
	}
	return out
}

// UniqueSlug appends -1, -2, ... to base until taken reports false.
func UniqueSlug(base string, taken func(string) (bool, error)) (string, error) {
	if base == "" {
		base = "item"
	}
	candidate := base
	for i := 1; ; i++ {
		exists, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}

