package timefmt

import (
	"fmt"
	"strings"
	"time"

	"github.com/oarkflow/date"
)

// Parse parses value with layout. An empty layout detects the format instead.
func Parse(layout, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty time value")
	}
	if layout == "" {
		return date.Parse(value)
	}
	if strings.Contains(value, "T") != strings.Contains(layout, "T") {
		layout = strings.Replace(layout, "T", " ", 1)
		value = strings.Replace(value, "T", " ", 1)
	}
	ret, err := time.ParseInLocation(layout, value, time.UTC)
	if err == nil {
		return ret, nil
	}
	// layouts with fractional or zone suffixes often meet values without them
	if len(value) > len(layout) {
		return time.ParseInLocation(layout, value[:len(layout)], time.UTC)
	}
	// a shorter value must still carry the whole date part
	if len(value) < datePartLen(layout) {
		return time.Time{}, err
	}
	return time.ParseInLocation(layout[:len(value)], value, time.UTC)
}

func datePartLen(layout string) int {
	if index := strings.IndexAny(layout, " T"); index != -1 {
		return index
	}
	return len(layout)
}
