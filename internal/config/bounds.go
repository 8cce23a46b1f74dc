package config

import (
	"fmt"
	"strings"
	"time"

	"plant-growth-lab/internal/domain"
)

var (
	dateLayouts = []string{
		"2006-01-02",
		"02-01-2006",
	}
	dateTimeLayouts = []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"02-01-2006 15:04:05",
		"02-01-2006 15:04",
	}
)

// ParseBound parses a window or correction bound. An empty string is an
// open bound and yields nil. Date-only values cover the whole day.
func ParseBound(s string) (*domain.Bound, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &domain.Bound{Time: t}, nil
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &domain.Bound{Time: t, DateOnly: true}, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", s)
}
