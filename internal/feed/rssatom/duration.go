package rssatom

import (
	"strconv"
	"strings"
)

// ParseDuration converts an episode duration string to whole seconds.
// Accepted shapes are "SS", "MM:SS" and "HH:MM:SS" with every component a
// non-negative integer. Anything else yields nil rather than a fallback
// value.
func ParseDuration(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return nil
	}

	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil
		}
		total = total*60 + n
	}
	return &total
}
