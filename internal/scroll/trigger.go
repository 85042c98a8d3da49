// Package scroll turns sentinel visibility into "advance" signals.
//
// A Trigger watches one sentinel at a time. It fires only when the sentinel
// goes from not visible to fully visible, so a sentinel that stays on screen
// fires once. Attaching a different target re-arms it: a list that grew gets a
// new sentinel, and if that one is already visible it fires again.
package scroll

import "sync"

type Trigger struct {
	mu       sync.Mutex
	target   string
	attached bool
	visible  bool
	released bool
	fired    int
}

func New() *Trigger {
	return &Trigger{}
}

// Attach starts observing target. Attaching the target that is already
// observed is a no-op.
func (t *Trigger) Attach(target string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return
	}
	if t.attached && t.target == target {
		return
	}
	t.target = target
	t.attached = true
	t.visible = false
}

// Observe records the sentinel's current visibility and reports whether this
// observation is a not-visible to visible transition.
func (t *Trigger) Observe(visible bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released || !t.attached {
		return false
	}
	fire := visible && !t.visible
	t.visible = visible
	if fire {
		t.fired++
	}
	return fire
}

// Release detaches the trigger for good.
func (t *Trigger) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.released = true
	t.attached = false
	t.target = ""
	t.visible = false
}

func (t *Trigger) Released() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.released
}

func (t *Trigger) Target() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.target
}

// Fired returns how many advance signals the trigger has emitted.
func (t *Trigger) Fired() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}

// SentinelVisible reports whether a sentinel row placed after total list rows
// is fully inside the window [start, end) of rendered rows. The sentinel
// occupies row index total.
func SentinelVisible(total, start, end int) bool {
	if total < 0 || start < 0 || end <= start {
		return false
	}
	return start <= total && total < end
}
