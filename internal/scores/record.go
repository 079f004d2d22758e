// Package scores holds the score history: the persisted records, the
// preferences that shape how they are shown, and the derived scoreboard view.
package scores

import (
	"strings"
	"time"
)

// Record is one finished quiz attempt. Timestamp is epoch milliseconds and
// may be zero for records written before timestamps existed.
type Record struct {
	Name      string `json:"name"`
	Correct   int    `json:"correct"`
	Total     int    `json:"total"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// Ratio is correct/total, or 0 when total is 0.
func (r Record) Ratio() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// Percent is the ratio as a whole percentage, rounded half away from zero.
func (r Record) Percent() int {
	return roundPercent(r.Correct, r.Total)
}

func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

type SortMode string

const (
	SortNewest  SortMode = "newest"
	SortOldest  SortMode = "oldest"
	SortHighest SortMode = "highest"
	SortLowest  SortMode = "lowest"
)

var SortModes = []SortMode{SortNewest, SortOldest, SortHighest, SortLowest}

// ParseSortMode maps free text to a mode; anything unknown is newest.
func ParseSortMode(value string) SortMode {
	mode := SortMode(strings.ToLower(strings.TrimSpace(value)))
	switch mode {
	case SortNewest, SortOldest, SortHighest, SortLowest:
		return mode
	default:
		return SortNewest
	}
}

func (m SortMode) Valid() bool {
	return ParseSortMode(string(m)) == m
}

// Clock supplies timestamps for new records.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

var SystemClock Clock = ClockFunc(time.Now)
