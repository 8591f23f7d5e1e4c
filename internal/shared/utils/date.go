package utils

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseOptionalDate parses YYYY-MM-DD; blank input yields nil
func ParseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
