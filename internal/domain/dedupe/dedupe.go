// Package dedupe tracks keys already seen while loading a race's inputs.
package dedupe

const defaultCapacity = 64

// Tracker records keys (car numbers, player names) so loaders can reject
// duplicates. It is not safe for concurrent use; one run owns one tracker.
type Tracker struct {
	seen      map[string]int // normalized key -> 1-based position of first occurrence
	normalize func(string) string
	capacity  int
	count     int
}

// New creates an empty Tracker with configuration options.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		normalize: func(s string) string { return s },
		capacity:  defaultCapacity,
	}

	for _, opt := range opts {
		opt(t)
	}

	t.seen = make(map[string]int, t.capacity)
	return t
}

// SeenAndRecord checks if key was seen and records it if not.
// Returns true if key was already seen, false if it was newly recorded.
func (t *Tracker) SeenAndRecord(key string) bool {
	k := t.normalize(key)
	if _, exists := t.seen[k]; exists {
		return true
	}
	t.count++
	t.seen[k] = t.count
	return false
}

// FirstSeen returns the 1-based position at which key was first recorded,
// or 0 if it was never recorded.
func (t *Tracker) FirstSeen(key string) int {
	return t.seen[t.normalize(key)]
}

// Size returns the number of distinct keys recorded.
func (t *Tracker) Size() int {
	return len(t.seen)
}
