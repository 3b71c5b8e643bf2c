package geo

import (
	"context"
	"sync"

	"github.com/wherewatch/wherewatch/internal/locale"
)

// Tracker holds a caller's current country guess. It starts from the
// immediate guess and is refined by Refresh. When refreshes overlap, or the
// user picks a country while one is in flight, only the latest intent is
// applied.
type Tracker struct {
	resolver CountryResolver

	mu         sync.Mutex
	current    locale.Country
	generation uint64
}

// NewTracker creates a tracker seeded with resolver.ResolveSync().
func NewTracker(resolver CountryResolver) *Tracker {
	return &Tracker{
		resolver: resolver,
		current:  resolver.ResolveSync(),
	}
}

// Current returns the current guess.
func (t *Tracker) Current() locale.Country {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Set records an explicit choice and discards any refresh still in flight.
func (t *Tracker) Set(c locale.Country) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generation++
	t.current = c
}

// Refresh runs ResolveAsync and applies the result unless a newer Refresh or
// Set happened meanwhile. It returns the country now current and whether
// this call changed it.
func (t *Tracker) Refresh(ctx context.Context) (locale.Country, bool) {
	t.mu.Lock()
	t.generation++
	gen := t.generation
	t.mu.Unlock()

	guess := t.resolver.ResolveAsync(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.generation || ctx.Err() != nil {
		return t.current, false
	}
	if guess == t.current {
		return t.current, false
	}
	t.current = guess
	return guess, true
}
