package convert

import (
	"strconv"
	"strings"
)

type StrTo string

func (s StrTo) String() string {
	return string(s)
}

func (s StrTo) Int() (int, error) {
	return strconv.Atoi(s.String())
}

func (s StrTo) MustInt() int {
	v, _ := s.Int()
	return v
}

func (s StrTo) Int64() (int64, error) {
	return strconv.ParseInt(s.String(), 10, 64)
}

func (s StrTo) MustInt64() int64 {
	v, _ := s.Int64()
	return v
}

// ToSize converts strings like "512KB" or "4MB" to a byte count.
func (s StrTo) ToSize() (int64, error) {
	sizeStr := strings.ToUpper(strings.TrimSpace(s.String()))
	if sizeStr == "" {
		return 0, nil
	}

	var multiplier int64 = 1
	switch {
	case strings.HasSuffix(sizeStr, "MB"):
		multiplier = 1024 * 1024
		sizeStr = strings.TrimSuffix(sizeStr, "MB")
	case strings.HasSuffix(sizeStr, "KB"):
		multiplier = 1024
		sizeStr = strings.TrimSuffix(sizeStr, "KB")
	case strings.HasSuffix(sizeStr, "B"):
		sizeStr = strings.TrimSuffix(sizeStr, "B")
	}

	size, err := strconv.ParseInt(strings.TrimSpace(sizeStr), 10, 64)
	if err != nil {
		return 0, err
	}
	return size * multiplier, nil
}

// MustToSize converts to a byte count, falling back to defaultVal on error.
func (s StrTo) MustToSize(defaultVal int64) int64 {
	v, err := s.ToSize()
	if err != nil || v <= 0 {
		return defaultVal
	}
	return v
}

// ToDuration converts strings like "7d", "24h", "30m" or "10s" to a duration
// in seconds. The bare "d" suffix is not understood by time.ParseDuration.
func (s StrTo) ToDuration() (int64, error) {
	str := strings.TrimSpace(s.String())
	if str == "" {
		return 0, nil
	}

	var multiplier int64 = 1
	switch {
	case strings.HasSuffix(str, "d"):
		multiplier = 24 * 3600
		str = strings.TrimSuffix(str, "d")
	case strings.HasSuffix(str, "h"):
		multiplier = 3600
		str = strings.TrimSuffix(str, "h")
	case strings.HasSuffix(str, "m"):
		multiplier = 60
		str = strings.TrimSuffix(str, "m")
	case strings.HasSuffix(str, "s"):
		str = strings.TrimSuffix(str, "s")
	}

	v, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, err
	}
	return v * multiplier, nil
}

// MustToDuration converts to seconds, falling back to defaultVal on error.
func (s StrTo) MustToDuration(defaultVal int64) int64 {
	v, err := s.ToDuration()
	if err != nil || v <= 0 {
		return defaultVal
	}
	return v
}
