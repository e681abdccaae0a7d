// Package nonce draws random 32-bit identifiers that never repeat within the
// lifetime of a Generator.
//
// The used-set is session scoped: values are remembered in memory only, so
// stability across restarts is the job of the identifier registry that sits on
// top of the generator. Host-owned identifiers can be seeded into the used-set
// so the generator never emits a value the host already assigned.
package nonce

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
)

// DefaultMaxAttempts bounds how many draws GenerateNew makes before giving up.
const DefaultMaxAttempts = 1024

// ErrExhausted is returned when every draw in the retry budget collided.
var ErrExhausted = errors.New("nonce: retry budget exhausted")

// Option configures a Generator.
type Option func(*Generator)

// WithSource replaces the random source. Intended for deterministic tests.
func WithSource(src rand.Source) Option {
	return func(g *Generator) {
		if src == nil {
			return
		}
		g.rng = rand.New(src)
	}
}

// WithMaxAttempts overrides DefaultMaxAttempts. Values below one are ignored.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// Generator produces int32 values in [0, math.MaxInt32) without repeats.
type Generator struct {
	mu          sync.Mutex
	used        map[int32]struct{}
	rng         *rand.Rand
	maxAttempts int
}

// New constructs an empty Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		used:        make(map[int32]struct{}),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// GenerateNew returns a value distinct from every value previously returned or
// seeded for this generator.
func (g *Generator) GenerateNew() (int32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		candidate := g.draw()
		if _, taken := g.used[candidate]; taken {
			continue
		}
		g.used[candidate] = struct{}{}
		return candidate, nil
	}
	return 0, fmt.Errorf("%w after %d attempts", ErrExhausted, g.maxAttempts)
}

// Seed marks ids as already in use. The host calls it with its full setting id
// list at startup and every time it redefines its settings.
func (g *Generator) Seed(ids ...int32) {
	if len(ids) == 0 {
		return
	}
	g.mu.Lock()
	for _, id := range ids {
		g.used[id] = struct{}{}
	}
	g.mu.Unlock()
}

// Used reports whether id was returned or seeded.
func (g *Generator) Used(id int32) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.used[id]
	return ok
}

// Len returns the size of the used-set.
func (g *Generator) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.used)
}

func (g *Generator) draw() int32 {
	if g.rng != nil {
		return g.rng.Int32N(math.MaxInt32)
	}
	return rand.Int32N(math.MaxInt32)
}
