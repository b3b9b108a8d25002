// Package generator synthesizes all rule-based "AI" content: the manager
// canvas, focus areas, milestones and promotion path derived from onboarding,
// weekly sub-task and career-move suggestions, STAR win narratives and coach
// replies. Every rule is a fixed template or keyword table; nothing here calls
// out to a model.
//
// Generators never return errors. Missing optional context only drops the
// context-dependent fragment of a template.
package generator

import (
	"time"

	"github.com/google/uuid"
)

// Generator carries the two sources of non-determinism, the clock and the id
// source, so callers and tests can pin both.
type Generator struct {
	now   func() time.Time
	newID func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the time source used for relative dates and timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithIDs sets the identifier source.
func WithIDs(newID func() string) Option {
	return func(g *Generator) {
		if newID != nil {
			g.newID = newID
		}
	}
}

// New returns a Generator backed by time.Now and random UUIDs unless
// overridden.
func New(opts ...Option) *Generator {
	g := &Generator{now: time.Now, newID: uuid.NewString}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Now returns the current time according to the generator's clock, in UTC.
func (g *Generator) Now() time.Time { return g.now().UTC() }

// NewID returns a fresh identifier.
func (g *Generator) NewID() string { return g.newID() }
