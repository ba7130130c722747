package scoring

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithQualifyingBonus enables or disables the front-row qualifying bonus.
func WithQualifyingBonus(enabled bool) Option {
	return func(e *Engine) {
		e.bonusEnabled = enabled
	}
}

// WithFrontRowCutoff sets the start position below which a pick earns the
// qualifying bonus. Values below 1 are ignored.
func WithFrontRowCutoff(cutoff int) Option {
	return func(e *Engine) {
		if cutoff >= 1 {
			e.frontRowCutoff = cutoff
		}
	}
}
