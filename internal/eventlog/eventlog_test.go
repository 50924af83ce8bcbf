package eventlog

import (
	"reflect"
	"testing"
	"time"
)

var t0 = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestRecord(t *testing.T) {
	l := New(nil)
	l.Record(t0)
	l.Record(t0) // same instant is legal
	l.Record(t0.Add(90 * time.Minute))

	if l.Len() != 3 || l.Total() != 3 {
		t.Fatalf("Len/Total = %d/%d, want 3/3", l.Len(), l.Total())
	}
	last, ok := l.Last()
	if !ok || !last.Equal(t0.Add(90*time.Minute)) {
		t.Errorf("Last() = %v, %v", last, ok)
	}
	first, _ := l.First()
	if !first.Equal(t0) {
		t.Errorf("First() = %v, want %v", first, t0)
	}
}

func TestEmptyLog(t *testing.T) {
	l := New(nil)
	if _, ok := l.Last(); ok {
		t.Error("Last() on empty log reported ok")
	}
	if _, ok := l.First(); ok {
		t.Error("First() on empty log reported ok")
	}
	if got := l.CountSince(time.Time{}); got != 0 {
		t.Errorf("CountSince() = %d, want 0", got)
	}
	if got := l.BucketByWeek(t0, 12); !reflect.DeepEqual(got, make([]int, 8)) {
		t.Errorf("BucketByWeek() = %v, want eight zeros", got)
	}
}

func TestEventsReturnsCopy(t *testing.T) {
	l := New([]time.Time{t0})
	ev := l.Events()
	ev[0] = t0.Add(time.Hour)
	if first, _ := l.First(); !first.Equal(t0) {
		t.Error("mutating Events() result changed the log")
	}
}

func TestCountSinceIsInclusive(t *testing.T) {
	l := New([]time.Time{t0.Add(-time.Hour), t0, t0.Add(time.Minute)})
	if got := l.CountSince(t0); got != 2 {
		t.Errorf("CountSince(t0) = %d, want 2", got)
	}
}

func TestBucketByWeek(t *testing.T) {
	week := 7 * 24 * time.Hour
	now := t0
	events := []time.Time{
		now.Add(-11*week - time.Hour), // oldest bucket, dropped by the 8-cap
		now.Add(-5*week - time.Hour),  // bucket 5 back
		now.Add(-week),                // start is inclusive: current week
		now.Add(-time.Minute),         // current week
		now.Add(-2 * time.Minute),     // current week
		now,                           // end is exclusive: not counted
	}
	l := New(events)

	got := l.BucketByWeek(now, 12)
	want := []int{0, 0, 1, 0, 0, 0, 0, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BucketByWeek() = %v, want %v", got, want)
	}
}

func TestBucketByWeekSmallWindow(t *testing.T) {
	l := New([]time.Time{t0.Add(-time.Hour)})
	got := l.BucketByWeek(t0, 3)
	if !reflect.DeepEqual(got, []int{0, 0, 1}) {
		t.Errorf("BucketByWeek(3) = %v", got)
	}
	if got := l.BucketByWeek(t0, 0); len(got) != 0 {
		t.Errorf("BucketByWeek(0) = %v, want empty", got)
	}
}
