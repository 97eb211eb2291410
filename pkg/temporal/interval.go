// Package temporal extends graph heads, vertices and edges with bitemporal
// information: a valid time interval saying when a fact holds in the modeled
// world and a transaction time interval saying when it was recorded.
//
// Bounds are unix milliseconds. MinTime stands for an open lower bound and
// MaxTime for an open upper bound. Intervals are half-open, [From, To).
package temporal

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	MinTime int64 = math.MinInt64
	MaxTime int64 = math.MaxInt64
)

// ErrInvalidInterval is returned when From is after To.
var ErrInvalidInterval = errors.New("invalid time interval")

// Interval is the half-open range [From, To).
type Interval struct {
	From int64
	To   int64
}

// Always is the interval covering every point in time.
var Always = Interval{From: MinTime, To: MaxTime}

// NewInterval validates and returns [from, to).
func NewInterval(from, to int64) (Interval, error) {
	i := Interval{From: from, To: to}
	if err := i.Validate(); err != nil {
		return Interval{}, err
	}
	return i, nil
}

// Since returns [from, MaxTime).
func Since(from int64) Interval {
	return Interval{From: from, To: MaxTime}
}

// Validate checks From <= To.
func (i Interval) Validate() error {
	if i.From > i.To {
		return fmt.Errorf("%w: from %d is after to %d", ErrInvalidInterval, i.From, i.To)
	}
	return nil
}

// Contains reports whether t lies in [From, To).
func (i Interval) Contains(t int64) bool {
	return i.From <= t && t < i.To
}

// Overlaps reports whether i and o share at least one point.
func (i Interval) Overlaps(o Interval) bool {
	return i.From < o.To && o.From < i.To
}

func (i Interval) String() string {
	return "[" + bound(i.From) + ", " + bound(i.To) + ")"
}

func bound(t int64) string {
	switch t {
	case MinTime:
		return "-inf"
	case MaxTime:
		return "+inf"
	}
	return time.UnixMilli(t).UTC().Format(time.RFC3339Nano)
}

// Millis converts t to unix milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
