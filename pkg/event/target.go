// Package event implements a synchronous, single-threaded event target in
// the style of a DOM window: listeners are registered per event type and
// invoked in registration order by Dispatch.
package event

import "sync"

// Event types dispatched by a page window.
const (
	TypeMouseMove = "mousemove"
	TypeScroll    = "scroll"
	TypeResize    = "resize"
)

// Event is anything a Target can dispatch.
type Event interface {
	Type() string
}

// MouseEvent carries viewport-relative pointer coordinates.
type MouseEvent struct {
	ClientX float64
	ClientY float64
}

func (MouseEvent) Type() string { return TypeMouseMove }

// ScrollEvent reports the new scroll offset.
type ScrollEvent struct {
	ScrollX float64
	ScrollY float64
}

func (ScrollEvent) Type() string { return TypeScroll }

// ResizeEvent reports a new viewport size.
type ResizeEvent struct {
	Width  float64
	Height float64
}

func (ResizeEvent) Type() string { return TypeResize }

// Listener handles one dispatched event.
type Listener func(Event)

// Source is the subscription side of a Target.
type Source interface {
	Listen(eventType string, fn Listener) *Subscription
}

type entry struct {
	id uint64
	fn Listener
}

// Target holds listeners keyed by event type.
type Target struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[string][]entry
}

func NewTarget() *Target {
	return &Target{listeners: make(map[string][]entry)}
}

// Listen registers fn for eventType and returns the handle that removes it.
func (t *Target) Listen(eventType string, fn Listener) *Subscription {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	id := t.nextID
	t.listeners[eventType] = append(t.listeners[eventType], entry{id: id, fn: fn})
	return &Subscription{target: t, eventType: eventType, id: id}
}

func (t *Target) remove(eventType string, id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	list := t.listeners[eventType]
	for i, e := range list {
		if e.id == id {
			// Copy so an in-progress Dispatch keeps iterating its snapshot.
			next := make([]entry, 0, len(list)-1)
			next = append(next, list[:i]...)
			t.listeners[eventType] = append(next, list[i+1:]...)
			return
		}
	}
}

func (t *Target) live(eventType string, id uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.listeners[eventType] {
		if e.id == id {
			return true
		}
	}
	return false
}

// Dispatch invokes the listeners for ev's type synchronously, in
// registration order. A listener removed by an earlier listener during the
// same dispatch is skipped.
func (t *Target) Dispatch(ev Event) {
	t.mu.Lock()
	snapshot := t.listeners[ev.Type()]
	t.mu.Unlock()
	for _, e := range snapshot {
		if !t.live(ev.Type(), e.id) {
			continue
		}
		e.fn(ev)
	}
}

// Count returns the number of live listeners for eventType.
func (t *Target) Count(eventType string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners[eventType])
}

// Subscription is the cancellation handle returned by Listen.
type Subscription struct {
	target    *Target
	eventType string
	id        uint64
	once      sync.Once
}

// Cancel removes the listener. Once Cancel returns, the listener is never
// invoked again. Calling Cancel more than once is a no-op.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.target.remove(s.eventType, s.id)
	})
}
