package fanout

import "github.com/rs/zerolog"

// Option configures an aggregate future at construction time.
type Option func(*Future)

// WithLogger sets the logger used to report listener dispatch failures.
// Without it the future stays silent: the default is zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Future) {
		f.logger = logger
	}
}
