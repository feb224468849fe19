package flame

import (
	"time"

	"github.com/jacoelho/flame/internal/pushid"
)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to mint push keys (useful in tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithRandom overrides the random source of the push key generator. fn must
// return values in [0,n).
func WithRandom(fn func(n int) int) Option {
	return func(s *Store) {
		if fn != nil {
			s.ids = pushid.New(pushid.WithIntN(fn))
		}
	}
}

// WithObserver installs an observer at construction time.
func WithObserver(fn Observer) Option {
	return func(s *Store) {
		s.observer = fn
	}
}
