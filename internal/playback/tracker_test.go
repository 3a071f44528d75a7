package playback

import (
	"testing"

	"livecaption/api-gateway/models"
)

func threeSegments() []models.Segment {
	return []models.Segment{
		{Start: 0, End: 2, Text: "a"},
		{Start: 2, End: 4, Text: "b"},
		{Start: 4, End: 6, Text: "c"},
	}
}

func TestActiveIndexBoundaries(t *testing.T) {
	segs := threeSegments()
	cases := []struct {
		now  float64
		want int
	}{
		{0, 0},
		{1.999, 0},
		{2.0, 1},
		{3.999, 1},
		{4.0, 2},
		{5.999, 2},
		{6.0, NoActiveSegment},
		{7.5, NoActiveSegment},
	}
	for _, tc := range cases {
		if got := ActiveIndex(segs, tc.now); got != tc.want {
			t.Errorf("ActiveIndex(%v): got %d, want %d", tc.now, got, tc.want)
		}
	}
}

func TestActiveIndexFirstMatchInArrivalOrder(t *testing.T) {
	// Overlapping windows arriving out of time order: the earlier arrival
	// wins even though the later one starts closer to the clock.
	segs := []models.Segment{
		{Start: 0, End: 10, Text: "first arrival"},
		{Start: 4, End: 6, Text: "later arrival"},
	}
	if got := ActiveIndex(segs, 5); got != 0 {
		t.Errorf("ActiveIndex(5): got %d, want 0", got)
	}
}

func TestActiveIndexEmpty(t *testing.T) {
	if got := ActiveIndex(nil, 1); got != NoActiveSegment {
		t.Errorf("ActiveIndex(nil): got %d, want %d", got, NoActiveSegment)
	}
}

func TestTrackerNotifiesOnTransition(t *testing.T) {
	tracker := NewTracker(threeSegments())

	type transition struct{ previous, current int }
	var seen []transition
	tracker.Subscribe(func(previous, current int) {
		seen = append(seen, transition{previous, current})
	})

	tracker.Advance(0.5)  // none -> 0
	tracker.Advance(1.0)  // still 0, no notification
	tracker.Advance(2.5)  // 0 -> 1
	tracker.Advance(6.0)  // 1 -> none

	want := []transition{{NoActiveSegment, 0}, {0, 1}, {1, NoActiveSegment}}
	if len(seen) != len(want) {
		t.Fatalf("transitions: got %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("transition %d: got %+v, want %+v", i, seen[i], want[i])
		}
	}
}

func TestTrackerActiveSegment(t *testing.T) {
	tracker := NewTracker(threeSegments())

	if _, ok := tracker.ActiveSegment(); ok {
		t.Fatal("expected no active segment before the first advance")
	}

	if got := tracker.Advance(4.5); got != 2 {
		t.Fatalf("Advance(4.5): got %d, want 2", got)
	}
	seg, ok := tracker.ActiveSegment()
	if !ok || seg.Text != "c" {
		t.Errorf("ActiveSegment: got %+v ok=%v, want text c", seg, ok)
	}
	if tracker.Active() != 2 {
		t.Errorf("Active: got %d, want 2", tracker.Active())
	}
}

func TestTrackerAppendExtendsLookup(t *testing.T) {
	tracker := NewTracker(nil)
	if got := tracker.Advance(1); got != NoActiveSegment {
		t.Fatalf("Advance before append: got %d, want none", got)
	}

	tracker.Append(models.Segment{Start: 0, End: 2, Text: "live"})
	if got := tracker.Advance(1); got != 0 {
		t.Errorf("Advance after append: got %d, want 0", got)
	}
}
