// Package playback maps an advancing playback clock to the active caption
// segment. Segments are evaluated in arrival order, which for live capture
// layered over a separately-advancing clock is not guaranteed to be time
// order; the first match wins.
package playback

import (
	"sync"

	"livecaption/api-gateway/models"
)

// NoActiveSegment is the index reported when no segment covers the clock.
const NoActiveSegment = -1

// ActiveIndex returns the index of the first segment in arrival order whose
// window contains now, using a half-open interval [start, end) so adjacent
// segments never both claim a boundary. Returns NoActiveSegment when nothing
// matches.
func ActiveIndex(segments []models.Segment, now float64) int {
	for i, seg := range segments {
		if seg.Start <= now && now < seg.End {
			return i
		}
	}
	return NoActiveSegment
}

// TransitionFunc observes active-segment changes. previous and current are
// segment indexes, either of which may be NoActiveSegment.
type TransitionFunc func(previous, current int)

// Tracker keeps the active-segment state for one playback surface and
// notifies subscribers whenever the active index changes, so consumers
// subscribe to transitions instead of re-deriving them.
type Tracker struct {
	mu        sync.Mutex
	segments  []models.Segment
	active    int
	observers []TransitionFunc
}

// NewTracker creates a tracker over the given segments with no active
// segment. The slice is not copied; use Append to grow it.
func NewTracker(segments []models.Segment) *Tracker {
	return &Tracker{segments: segments, active: NoActiveSegment}
}

// Subscribe registers fn to be called on every active-index transition.
// Callbacks run on the goroutine that called Advance and must not call back
// into the tracker.
func (t *Tracker) Subscribe(fn TransitionFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

// Append adds a newly arrived segment to the end of the sequence.
func (t *Tracker) Append(seg models.Segment) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.segments = append(t.segments, seg)
}

// Advance re-evaluates the lookup for the new clock position and returns the
// active index. Subscribers are notified only when the index changed.
func (t *Tracker) Advance(now float64) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	current := ActiveIndex(t.segments, now)
	if current == t.active {
		return current
	}
	previous := t.active
	t.active = current
	for _, fn := range t.observers {
		fn(previous, current)
	}
	return current
}

// Active returns the most recently computed active index.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// ActiveSegment returns the currently active segment, if any.
func (t *Tracker) ActiveSegment() (models.Segment, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == NoActiveSegment || t.active >= len(t.segments) {
		return models.Segment{}, false
	}
	return t.segments[t.active], true
}
