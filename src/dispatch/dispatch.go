// Package dispatch maps event names to handler callbacks. Handlers of
// one firing run concurrently with each other and with the caller, and
// a panicking handler never takes down its siblings or the dispatcher.
package dispatch

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
)

var ErrNilHandler = errors.New("handler must not be nil")

type Handler func(event string, data json.RawMessage)

type registration struct {
	id      uint64
	handler Handler
}

type Dispatcher struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[string][]registration
	log      *slog.Logger
}

func New(log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		handlers: make(map[string][]registration),
		log:      log,
	}
}

// Register adds a handler for an event name and returns a function
// that removes exactly that handler again.
func (d *Dispatcher) Register(event string, handler Handler) (func(), error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.handlers[event] = append(d.handlers[event], registration{id: id, handler: handler})
	d.mu.Unlock()
	return func() { d.remove(event, id) }, nil
}

func (d *Dispatcher) remove(event string, id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	regs := d.handlers[event]
	for i, reg := range regs {
		if reg.id == id {
			d.handlers[event] = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(d.handlers[event]) == 0 {
		delete(d.handlers, event)
	}
}

// Unregister removes every handler registered for an event name.
func (d *Dispatcher) Unregister(event string) {
	d.mu.Lock()
	delete(d.handlers, event)
	d.mu.Unlock()
}

// Fire invokes every handler registered for the event, each on its own
// goroutine. It returns without waiting for the handlers to finish.
func (d *Dispatcher) Fire(event string, data json.RawMessage) {
	d.mu.RLock()
	regs := d.handlers[event]
	d.mu.RUnlock()
	for _, reg := range regs {
		go d.invoke(event, reg.handler, data)
	}
}

func (d *Dispatcher) invoke(event string, handler Handler, data json.RawMessage) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("event handler panicked", "event", event, "panic", r)
		}
	}()
	handler(event, data)
}

// EventNames reports the event names with at least one handler.
func (d *Dispatcher) EventNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	return names
}
