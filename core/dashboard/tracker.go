package dashboard

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// ErrStale is returned for a pass that was overtaken by a newer one.
var ErrStale = errors.New("dashboard pass superseded by a newer one")

// Tracker serializes refreshes of one view: starting a pass cancels the previous
// one, and only the latest pass may deliver its result.
type Tracker struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func (t *Tracker) start(ctx context.Context) (context.Context, uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	t.gen++
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	return ctx, t.gen
}

func (t *Tracker) finish(gen uint64) (current bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.gen != gen {
		return false
	}
	t.cancel()
	t.cancel = nil
	return true
}

// Generation is the number of passes started so far.
func (t *Tracker) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}

// Run runs fn as the newest pass. It returns ErrStale, whatever fn returned, when
// another pass started before fn completed.
func (t *Tracker) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, gen := t.start(ctx)
	err := fn(ctx)
	if !t.finish(gen) {
		return ErrStale
	}
	return err
}

// Track is Run for passes that produce a value.
func Track[T any](ctx context.Context, t *Tracker, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := t.Run(ctx, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Trackers holds one Tracker per view key.
type Trackers struct {
	mu sync.Mutex
	m  map[string]*Tracker
}

func NewTrackers() *Trackers {
	return &Trackers{m: make(map[string]*Tracker)}
}

func (ts *Trackers) Get(key string) *Tracker {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	t, ok := ts.m[key]
	if !ok {
		t = &Tracker{}
		ts.m[key] = t
	}
	return t
}
