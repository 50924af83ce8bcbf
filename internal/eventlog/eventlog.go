// Package eventlog holds the append-only sequence of recorded smoking events.
package eventlog

import (
	"time"

	"github.com/julianstephens/stopsmokin/internal/constants"
)

// Log is an ordered, append-only list of event instants plus a running total.
// Insertion order is chronological order.
type Log struct {
	events []time.Time
	total  int
}

// New builds a log from persisted events. The total is taken from
// len(events); persisted totals are validated elsewhere before they get here.
func New(events []time.Time) *Log {
	cp := make([]time.Time, len(events))
	copy(cp, events)
	return &Log{events: cp, total: len(cp)}
}

// Record appends now. Duplicates and same-second events are accepted.
func (l *Log) Record(now time.Time) {
	l.events = append(l.events, now.UTC())
	l.total++
}

// Len returns the number of stored events.
func (l *Log) Len() int { return len(l.events) }

// Total returns the running total, always equal to Len.
func (l *Log) Total() int { return l.total }

// Events returns a copy of the events, oldest first.
func (l *Log) Events() []time.Time {
	out := make([]time.Time, len(l.events))
	copy(out, l.events)
	return out
}

// First returns the oldest event.
func (l *Log) First() (time.Time, bool) {
	if len(l.events) == 0 {
		return time.Time{}, false
	}
	return l.events[0], true
}

// Last returns the most recent event.
func (l *Log) Last() (time.Time, bool) {
	if len(l.events) == 0 {
		return time.Time{}, false
	}
	return l.events[len(l.events)-1], true
}

// CountSince counts events at or after cutoff.
func (l *Log) CountSince(cutoff time.Time) int {
	n := 0
	for _, e := range l.events {
		if !e.Before(cutoff) {
			n++
		}
	}
	return n
}

// CountBetween counts events in [start, end).
func (l *Log) CountBetween(start, end time.Time) int {
	n := 0
	for _, e := range l.events {
		if !e.Before(start) && e.Before(end) {
			n++
		}
	}
	return n
}

// BucketByWeek splits the trailing windowCount weeks ending at now into
// 7x24h buckets, oldest first, and returns at most the newest eight.
// Bucket i (counting back from now) covers [now-(i+1)w, now-i*w).
func (l *Log) BucketByWeek(now time.Time, windowCount int) []int {
	if windowCount <= 0 {
		return []int{}
	}
	buckets := make([]int, windowCount)
	for i := 0; i < windowCount; i++ {
		end := now.Add(-time.Duration(i) * constants.Week)
		start := end.Add(-constants.Week)
		buckets[windowCount-1-i] = l.CountBetween(start, end)
	}
	if len(buckets) > constants.WeeklyBucketsMax {
		buckets = buckets[len(buckets)-constants.WeeklyBucketsMax:]
	}
	return buckets
}
