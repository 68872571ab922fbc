package store

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// rfc2822Layouts cover the numeric-offset forms of RFC 2822 dates, with and
// without the weekday and seconds.
var rfc2822Layouts = []string{
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04 -0700",
	"2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04 -0700",
}

// ParseTimestamp parses an RFC 3339 or RFC 2822 timestamp, keeping its offset.
func ParseTimestamp(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t, nil
	}
	for _, layout := range rfc2822Layouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is neither an RFC 3339 nor an RFC 2822 timestamp", trimmed)
}

// FormatTimestamp renders t the way it is stored on disk. RFC 3339 offsets
// have minute precision, so a sub-minute offset is first moved to the nearest
// whole minute; the instant is unchanged.
func FormatTimestamp(t time.Time) string {
	return wholeMinuteOffset(t).Format(time.RFC3339Nano)
}

func wholeMinuteOffset(t time.Time) time.Time {
	_, offset := t.Zone()
	if offset%60 == 0 {
		return t
	}
	rounded := int(math.Round(float64(offset)/60)) * 60
	return t.In(time.FixedZone("", rounded))
}

// DisplayTime renders t for operator-facing messages.
func DisplayTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05 -07:00")
}
