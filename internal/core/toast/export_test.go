package toast

// WithMaxID bounds the identity counter so tests can exercise wrapping.
func WithMaxID(opts Options, max uint64) Options {
	opts.maxID = max
	return opts
}
