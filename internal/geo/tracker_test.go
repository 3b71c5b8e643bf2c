package geo

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wherewatch/wherewatch/internal/locale"
)

// gatedResolver blocks ResolveAsync until released, returning the queued
// answers in call order.
type gatedResolver struct {
	initial locale.Country
	mu      sync.Mutex
	next    int
	answers []locale.Country
	gates   []chan struct{}
	started chan struct{}
}

func newGatedResolver(initial locale.Country, answers ...locale.Country) *gatedResolver {
	g := &gatedResolver{initial: initial, answers: answers, started: make(chan struct{}, len(answers))}
	for range answers {
		g.gates = append(g.gates, make(chan struct{}))
	}
	return g
}

func (g *gatedResolver) ResolveSync() locale.Country { return g.initial }

func (g *gatedResolver) ResolveAsync(ctx context.Context) locale.Country {
	g.mu.Lock()
	answer, gate := g.answers[g.next], g.gates[g.next]
	g.next++
	g.mu.Unlock()

	g.started <- struct{}{}
	<-gate
	return answer
}

type staticResolver struct {
	immediate, refined locale.Country
}

func (s staticResolver) ResolveSync() locale.Country                      { return s.immediate }
func (s staticResolver) ResolveAsync(ctx context.Context) locale.Country { return s.refined }

func TestTracker_Refresh(t *testing.T) {
	tr := NewTracker(staticResolver{immediate: locale.US, refined: locale.TR})
	assert.Equal(t, locale.US, tr.Current())

	country, changed := tr.Refresh(context.Background())
	assert.True(t, changed)
	assert.Equal(t, locale.TR, country)

	country, changed = tr.Refresh(context.Background())
	assert.False(t, changed, "same guess must not report a change")
	assert.Equal(t, locale.TR, country)
}

func TestTracker_StaleRefreshDiscarded(t *testing.T) {
	res := newGatedResolver(locale.US, locale.FR, locale.IT)
	tr := NewTracker(res)

	type outcome struct {
		country locale.Country
		changed bool
	}
	first := make(chan outcome, 1)
	go func() {
		c, ok := tr.Refresh(context.Background())
		first <- outcome{c, ok}
	}()
	<-res.started

	second := make(chan outcome, 1)
	go func() {
		c, ok := tr.Refresh(context.Background())
		second <- outcome{c, ok}
	}()
	<-res.started

	// Newer refresh lands first, then the stale one.
	close(res.gates[1])
	close(res.gates[0])

	got2 := <-second
	got1 := <-first

	// Whichever finishes, only the newest intent may be applied.
	assert.False(t, got1.changed)
	assert.Equal(t, locale.IT, tr.Current())
	assert.True(t, got2.changed)
	assert.Equal(t, locale.IT, got2.country)
}

func TestTracker_SetDiscardsInFlight(t *testing.T) {
	res := newGatedResolver(locale.US, locale.FR)
	tr := NewTracker(res)

	done := make(chan bool, 1)
	go func() {
		_, changed := tr.Refresh(context.Background())
		done <- changed
	}()
	<-res.started

	tr.Set(locale.KR)
	close(res.gates[0])

	assert.False(t, <-done)
	assert.Equal(t, locale.KR, tr.Current())
}

func TestTracker_CancelledContext(t *testing.T) {
	tr := NewTracker(staticResolver{immediate: locale.US, refined: locale.JP})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	country, changed := tr.Refresh(ctx)
	assert.False(t, changed)
	assert.Equal(t, locale.US, country)
}
