package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Quarter is a calendar year-quarter such as 2021Q3
type Quarter struct {
	Year int `json:"year" yaml:"year"`
	Q    int `json:"quarter" yaml:"quarter"`
}

// QuarterOf returns the quarter containing t
func QuarterOf(t time.Time) Quarter {
	return Quarter{Year: t.Year(), Q: (int(t.Month())-1)/3 + 1}
}

// ParseQuarter parses labels like "2021Q3" (case insensitive)
func ParseQuarter(s string) (Quarter, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	year, q, found := strings.Cut(s, "Q")
	if !found {
		return Quarter{}, fmt.Errorf("invalid quarter %q: expected YYYYQn", s)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return Quarter{}, fmt.Errorf("invalid quarter year %q: %w", year, err)
	}
	n, err := strconv.Atoi(q)
	if err != nil || n < 1 || n > 4 {
		return Quarter{}, fmt.Errorf("invalid quarter number %q", q)
	}
	return Quarter{Year: y, Q: n}, nil
}

// String returns the label, e.g. "2021Q3"
func (q Quarter) String() string {
	return fmt.Sprintf("%dQ%d", q.Year, q.Q)
}

// Before reports whether q is chronologically earlier than other
func (q Quarter) Before(other Quarter) bool {
	if q.Year != other.Year {
		return q.Year < other.Year
	}
	return q.Q < other.Q
}

// Start returns the first instant of the quarter in UTC
func (q Quarter) Start() time.Time {
	return time.Date(q.Year, time.Month((q.Q-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether the quarter is unset
func (q Quarter) IsZero() bool {
	return q.Year == 0 && q.Q == 0
}
