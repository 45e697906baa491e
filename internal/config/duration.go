package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTTL parsea una duración "<n><unit>" con unit ∈ s|m|h|d (ej: "15m", "30d").
// Como fallback acepta cualquier formato de time.ParseDuration ("1h30m").
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	unit := s[len(s)-1]
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		d, perr := time.ParseDuration(s)
		if perr != nil || d <= 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return d, nil
	}
	if n <= 0 {
		return 0, fmt.Errorf("duration must be positive: %q", s)
	}
	switch unit {
	case 's':
		return time.Duration(n) * time.Second, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("invalid duration unit %q in %q", string(unit), s)
}
