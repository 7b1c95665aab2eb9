package internal

import (
	"strings"
	"time"
)

// dueDateLayouts lists the accepted due date formats, the first one matching wins.
//
// US and EU slash dates are ambiguous when the day is 12 or lower, "03/04/2024" is always parsed as
// March 4th because the US layout is tried first.
var dueDateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006",
	"2/1/2006",
}

// ParseDueDate parses a due date using the accepted layouts, values without time zone are UTC.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, NewErrorf(ErrorCodeInvalidArgument, "unknown due date format: %q", s)
}
