package time_parser

import (
	"strconv"
	"time"
)

// Values above this are treated as unix milliseconds (after 2001-09-09).
const millisThreshold = 1e12

var layouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseClientTimestamp interprets a timestamp sent by an offline client.
// Strings in ISO formats or numeric unix seconds/milliseconds are accepted.
// ok is false for nil, empty or unparseable input.
func ParseClientTimestamp(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false

	case string:
		if v == "" {
			return time.Time{}, false
		}

		for _, layout := range layouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC(), true
			}
		}

		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return fromUnix(n), true
		}

		return time.Time{}, false

	case float64:
		return fromUnix(v), true

	case int64:
		return fromUnix(float64(v)), true

	case int:
		return fromUnix(float64(v)), true

	default:
		return time.Time{}, false
	}
}

func fromUnix(v float64) time.Time {
	if v >= millisThreshold {
		return time.UnixMilli(int64(v)).UTC()
	}

	return time.Unix(int64(v), 0).UTC()
}
