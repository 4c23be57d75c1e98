// Package eventbus lets a BindingGraphFactory run publish lifecycle
// events (component.resolving, component.resolved,
// subcomponent.discovered, key.resolved) without knowing who, if
// anyone, is listening. The bus is synchronous: a resolver run is
// single-threaded cooperative, so async dispatch and retry machinery
// would have no job to do here.
package eventbus

import (
	"fmt"
	"sync"
)

// Event is anything with a name a Bus can dispatch by.
type Event interface {
	Name() string
}

// BaseEvent is the default Event implementation: a name plus an
// arbitrary payload.
type BaseEvent struct {
	EventName string
	Payload   interface{}
}

func (e BaseEvent) Name() string { return e.EventName }

// New constructs a BaseEvent.
func New(name string, payload interface{}) Event {
	return BaseEvent{EventName: name, Payload: payload}
}

// Handler processes one published event. A returned error is passed to
// the bus's error handler but never stops other handlers from running.
type Handler func(event Event) error

// Bus dispatches events to subscribed handlers, synchronously, in
// subscription order.
type Bus struct {
	mu           sync.RWMutex
	handlers     map[string][]namedHandler
	errorHandler func(err error, event Event, handlerName string)
}

type namedHandler struct {
	name string
	fn   Handler
}

// NewBus creates a Bus. A nil errorHandler falls back to a handler
// that prints the failure via fmt.
func NewBus(errorHandler func(err error, event Event, handlerName string)) *Bus {
	if errorHandler == nil {
		errorHandler = func(err error, event Event, handlerName string) {
			fmt.Printf("eventbus: handler %s failed for %s: %v\n", handlerName, event.Name(), err)
		}
	}
	return &Bus{
		handlers:     make(map[string][]namedHandler),
		errorHandler: errorHandler,
	}
}

// Subscribe registers handler for eventName and returns an unsubscribe
// function.
func (b *Bus) Subscribe(eventName string, handler Handler) (unsubscribe func()) {
	return b.SubscribeNamed(eventName, fmt.Sprintf("%p", handler), handler)
}

// SubscribeNamed is Subscribe with an explicit handler name, used in
// error reporting.
func (b *Bus) SubscribeNamed(eventName, name string, handler Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventName] = append(b.handlers[eventName], namedHandler{name: name, fn: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		hs := b.handlers[eventName]
		for i, h := range hs {
			if h.name == name {
				b.handlers[eventName] = append(hs[:i], hs[i+1:]...)
				break
			}
		}
		if len(b.handlers[eventName]) == 0 {
			delete(b.handlers, eventName)
		}
	}
}

// Publish dispatches event to every handler subscribed to its name, in
// subscription order, collecting (but not stopping on) errors.
func (b *Bus) Publish(event Event) []error {
	b.mu.RLock()
	hs := append([]namedHandler(nil), b.handlers[event.Name()]...)
	b.mu.RUnlock()

	var errs []error
	for _, h := range hs {
		if err := h.fn(event); err != nil {
			errs = append(errs, err)
			b.errorHandler(err, event, h.name)
		}
	}
	return errs
}

// Resolution lifecycle event names published by graph.Factory.
const (
	ComponentResolving     = "component.resolving"
	ComponentResolved      = "component.resolved"
	SubcomponentDiscovered = "subcomponent.discovered"
	KeyResolved            = "key.resolved"
)
