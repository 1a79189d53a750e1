package event

import "context"

// Handler processes the event types it declares.
type Handler interface {
	// HandleEvent processes a single event synchronously.
	HandleEvent(ctx context.Context, ev Event)

	// EventTypes returns the event types this handler processes.
	EventTypes() []Type
}

// HandlerFunc adapts a function to a Handler for a fixed set of types.
type HandlerFunc struct {
	Types []Type
	Fn    func(ctx context.Context, ev Event)
}

// HandleEvent calls Fn.
func (h HandlerFunc) HandleEvent(ctx context.Context, ev Event) { h.Fn(ctx, ev) }

// EventTypes returns Types.
func (h HandlerFunc) EventTypes() []Type { return h.Types }

// Router dispatches events to registered handlers.
//
// Dispatch is single-threaded and synchronous: Emit returns after every
// handler for the event has run, in registration order. The host must not
// emit concurrently.
type Router struct {
	handlers map[Type][]Handler
	frame    int64
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{handlers: make(map[Type][]Handler)}
}

// Register adds a handler for its declared event types.
func (r *Router) Register(h Handler) {
	for _, t := range h.EventTypes() {
		r.handlers[t] = append(r.handlers[t], h)
	}
}

// Emit routes an event to every handler registered for its type.
// Frame events advance the router's frame counter first.
func (r *Router) Emit(ctx context.Context, t Type, payload any) {
	if t == Frame {
		r.frame++
	}
	ev := Event{Type: t, Payload: payload, Frame: r.frame}
	for _, h := range r.handlers[t] {
		h.HandleEvent(ctx, ev)
	}
}

// HandlerCount returns the number of handlers registered for the given type.
func (r *Router) HandlerCount(t Type) int {
	return len(r.handlers[t])
}

// FrameNumber returns the number of Frame events emitted so far.
func (r *Router) FrameNumber() int64 {
	return r.frame
}
