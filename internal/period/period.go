// Package period computes calendar-aware inclusion windows for the relative
// reporting periods and filters transaction collections against them.
package period

import (
	"fmt"
	"strconv"
	"time"

	"moneydrain/internal/core"
)

// All is the unbounded sentinel: no lower boundary at all.
const All Period = "all"

// Period names a relative window: "1d".."6d", "1m".."6m", "1y".."5y" or
// "all".
type Period string

const (
	maxDays   = 6
	maxMonths = 6
	maxYears  = 5
)

// Parse validates s against the bounded period sets.
func Parse(s string) (Period, error) {
	p := Period(s)
	if p.Valid() {
		return p, nil
	}
	return "", core.ErrInvalidPeriod
}

// Valid reports whether p is one of the supported periods.
func (p Period) Valid() bool {
	if p == All {
		return true
	}
	n, unit, ok := p.split()
	if !ok {
		return false
	}
	switch unit {
	case 'd':
		return n >= 1 && n <= maxDays
	case 'm':
		return n >= 1 && n <= maxMonths
	case 'y':
		return n >= 1 && n <= maxYears
	}
	return false
}

func (p Period) split() (n int, unit byte, ok bool) {
	s := string(p)
	if len(s) < 2 {
		return 0, 0, false
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, 0, false
	}
	return n, s[len(s)-1], true
}

// Start computes the inclusive lower boundary of p relative to now.
// Windows are calendar-aligned, not rolling: day windows start at a
// start-of-day boundary, month windows on the 1st, year windows on Jan 1.
// ok is false for the unbounded "all" period and for anything Parse would
// reject; an invalid period never produces a boundary.
func (p Period) Start(now time.Time) (start time.Time, ok bool) {
	if p == All || !p.Valid() {
		return time.Time{}, false
	}
	n, unit, _ := p.split()
	loc := now.Location()
	switch unit {
	case 'd':
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		return day.AddDate(0, 0, -(n - 1)), true
	case 'm':
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return first.AddDate(0, -(n - 1), 0), true
	default:
		return time.Date(now.Year()-(n-1), time.January, 1, 0, 0, 0, 0, loc), true
	}
}

// Filter keeps every transaction whose own timestamp is at or after p's
// start boundary, preserving the input order. A transaction dated exactly at
// the boundary instant is included.
func Filter(txs []core.Transaction, p Period, now time.Time) []core.Transaction {
	start, bounded := p.Start(now)
	if !bounded {
		return txs
	}
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if !t.Date.Before(start) {
			out = append(out, t)
		}
	}
	return out
}

// Label returns the human-readable form used in export metadata,
// e.g. "3 Days", "1 Month", "All Time".
func (p Period) Label() string {
	if p == All {
		return "All Time"
	}
	n, unit, ok := p.split()
	if !ok {
		return string(p)
	}
	var noun string
	switch unit {
	case 'd':
		noun = "Day"
	case 'm':
		noun = "Month"
	default:
		noun = "Year"
	}
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
