package dedupe

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithNormalizer sets the function applied to every key before it is compared.
// A nil normalizer is ignored.
func WithNormalizer(fn func(string) string) Option {
	return func(t *Tracker) {
		if fn != nil {
			t.normalize = fn
		}
	}
}

// WithCapacity presizes the tracker for the expected number of keys.
func WithCapacity(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.capacity = n
		}
	}
}
