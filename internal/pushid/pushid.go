// Package pushid generates push keys: 20-character identifiers that sort
// lexicographically in generation order.
//
// The first 8 characters encode a millisecond timestamp, the last 12 are
// random. Keys minted in the same millisecond reuse the previous random part
// incremented by one, so they still sort after their predecessor.
package pushid

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

// Alphabet is ordered by ASCII value so that encoded digits sort like their
// numeric values.
const Alphabet = "-0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

const (
	Length     = timeLength + randLength
	timeLength = 8
	randLength = 12
	base       = len(Alphabet)
)

// ErrInvariantViolation marks failures that would otherwise produce a
// malformed or out-of-order key.
var ErrInvariantViolation = errors.New("push id invariant violated")

// Generator holds the state of the last minted key. It is not safe for
// concurrent use.
type Generator struct {
	lastTime int64
	hasLast  bool
	digits   [randLength]int
	intN     func(int) int
}

// Option configures a Generator.
type Option func(*Generator)

// WithIntN overrides the random source. fn must return values in [0,n).
func WithIntN(fn func(int) int) Option {
	return func(g *Generator) {
		if fn != nil {
			g.intN = fn
		}
	}
}

func New(opts ...Option) *Generator {
	g := &Generator{intN: rand.IntN}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate mints a key for the given Unix millisecond timestamp.
func (g *Generator) Generate(nowMillis int64) (string, error) {
	if nowMillis < 0 {
		return "", fmt.Errorf("%w: negative timestamp %d", ErrInvariantViolation, nowMillis)
	}

	var stamp [timeLength]byte
	remaining := nowMillis
	for i := timeLength - 1; i >= 0; i-- {
		stamp[i] = Alphabet[remaining%int64(base)]
		remaining /= int64(base)
	}
	if remaining != 0 {
		return "", fmt.Errorf("%w: timestamp %d does not fit in %d characters", ErrInvariantViolation, nowMillis, timeLength)
	}

	digits := g.digits
	if g.hasLast && nowMillis == g.lastTime {
		if !increment(&digits) {
			return "", fmt.Errorf("%w: random counter exhausted at %d", ErrInvariantViolation, nowMillis)
		}
	} else {
		for i := range digits {
			digits[i] = g.intN(base)
			if digits[i] < 0 || digits[i] >= base {
				return "", fmt.Errorf("%w: random digit %d out of range", ErrInvariantViolation, digits[i])
			}
		}
	}

	var id strings.Builder
	id.Grow(Length)
	id.Write(stamp[:])
	for _, d := range digits {
		id.WriteByte(Alphabet[d])
	}
	if id.Len() != Length {
		return "", fmt.Errorf("%w: generated %d characters, want %d", ErrInvariantViolation, id.Len(), Length)
	}

	g.lastTime, g.hasLast, g.digits = nowMillis, true, digits
	return id.String(), nil
}

// increment adds one to digits as a big-endian base-64 counter. It reports
// false when every digit was already at the maximum.
func increment(digits *[randLength]int) bool {
	i := randLength - 1
	for ; i >= 0 && digits[i] == base-1; i-- {
		digits[i] = 0
	}
	if i < 0 {
		return false
	}
	digits[i]++
	return true
}

// Timestamp recovers the millisecond timestamp embedded in id.
func Timestamp(id string) (int64, error) {
	if len(id) != Length {
		return 0, fmt.Errorf("%w: id %q has %d characters, want %d", ErrInvariantViolation, id, len(id), Length)
	}
	var millis int64
	for i := range timeLength {
		d := strings.IndexByte(Alphabet, id[i])
		if d < 0 {
			return 0, fmt.Errorf("%w: id %q has invalid character %q", ErrInvariantViolation, id, id[i])
		}
		millis = millis*int64(base) + int64(d)
	}
	return millis, nil
}
