package schoolapi

import (
	"sort"
	"sync"
	"time"
)

type EventKind int

const (
	EventUnauthorized EventKind = iota + 1
	EventLoggedIn
	EventLoggedOut
)

func (k EventKind) String() string {
	switch k {
	case EventUnauthorized:
		return "unauthorized"
	case EventLoggedIn:
		return "logged_in"
	case EventLoggedOut:
		return "logged_out"
	default:
		return "unknown"
	}
}

// AuthEvent signals a change of the session state.
type AuthEvent struct {
	Kind EventKind
	Path string // request path that triggered the event, if any
	At   time.Time
}

// AuthEvents is a small synchronous pub/sub bus.
// Handlers run on the publishing goroutine, in subscription order.
type AuthEvents struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(AuthEvent)
}

func NewAuthEvents() *AuthEvents {
	return &AuthEvents{subs: make(map[int]func(AuthEvent))}
}

// Subscribe registers fn and returns a func that removes it.
func (b *AuthEvents) Subscribe(fn func(AuthEvent)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

func (b *AuthEvents) publish(ev AuthEvent) {
	if ev.At.IsZero() {
		ev.At = nowFunc()
	}

	b.mu.RLock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]func(AuthEvent), 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, b.subs[id])
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}
