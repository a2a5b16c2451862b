package utils

import (
	"testing"
	"time"
)

func TestURLSetNoDuplicates(t *testing.T) {
	s := NewURLSet()

	added := s.Add("https://example.com/1")
	if !added {
		t.Error("first Add should return true")
	}

	added = s.Add("https://example.com/1")
	if added {
		t.Error("second Add of same URL should return false")
	}

	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
}

func TestThrottleMinimumInterval(t *testing.T) {
	intervalMs := 50
	th := NewThrottle(intervalMs)

	var timestamps []time.Time
	for i := 0; i < 3; i++ {
		th.Wait()
		timestamps = append(timestamps, time.Now())
	}

	min := time.Duration(intervalMs) * time.Millisecond
	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		if gap < min {
			t.Errorf("gap between call %d and %d: %v < minimum %v", i-1, i, gap, min)
		}
	}
}

func TestThrottleFirstCallDoesNotBlock(t *testing.T) {
	th := NewThrottle(500)

	start := time.Now()
	th.Wait()
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first Wait blocked for %v", elapsed)
	}
}

func TestThrottleZeroInterval(t *testing.T) {
	th := NewThrottle(0)

	start := time.Now()
	for i := 0; i < 10; i++ {
		th.Wait()
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("zero-interval throttle blocked for %v", elapsed)
	}
}
