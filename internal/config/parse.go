package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Day is the unit of age filters.
const Day = 24 * time.Hour

var sizeSuffixes = []struct {
	suffix string
	mult   float64
}{
	// Longest first so "B" never shadows "MB".
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// ParseSize parses "100MB", "1.5GB", "512kb" or a plain byte count.
// Units are binary (1KB = 1024 bytes).
func ParseSize(s string) (int64, error) {
	value := strings.ToUpper(strings.TrimSpace(s))
	mult := 1.0
	for _, sfx := range sizeSuffixes {
		if strings.HasSuffix(value, sfx.suffix) {
			value = strings.TrimSpace(strings.TrimSuffix(value, sfx.suffix))
			mult = sfx.mult
			break
		}
	}

	n, err := strconv.ParseFloat(value, 64)
	if err != nil || n < 0 || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, fmt.Errorf("invalid size: %q", s)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which no int64 holds.
	if n*mult >= math.MaxInt64 {
		return 0, fmt.Errorf("size out of range: %q", s)
	}
	return int64(n * mult), nil
}

// ParseAge parses "30d", "6m", "1y" or a plain number of days. A month is 30
// days and a year is 365 days.
func ParseAge(s string) (time.Duration, error) {
	value := strings.ToLower(strings.TrimSpace(s))
	days := 1
	switch {
	case strings.HasSuffix(value, "d"):
		value = strings.TrimSuffix(value, "d")
	case strings.HasSuffix(value, "m"):
		value = strings.TrimSuffix(value, "m")
		days = 30
	case strings.HasSuffix(value, "y"):
		value = strings.TrimSuffix(value, "y")
		days = 365
	}

	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid age: %q", s)
	}
	if n > int64(math.MaxInt64/(time.Duration(days)*Day)) {
		return 0, fmt.Errorf("age out of range: %q", s)
	}
	return time.Duration(n) * time.Duration(days) * Day, nil
}
