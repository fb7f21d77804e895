package engine

import (
	"context"
	"sync"
	"time"

	"wordquest/core"
)

// DispatchMode selects how the bus delivers events to subscribers.
type DispatchMode int

const (
	DispatchSync DispatchMode = iota
	DispatchAsync
)

type subscription struct {
	id int64
	fn func(context.Context, core.Event)
}

// EventBus is a thread-safe pub/sub for domain events with sync and async
// dispatch. The store publishes one event per applied transition; UI layers
// and integrations subscribe for notifications (level-up toasts, badge
// popups, webhooks).
type EventBus struct {
	mode    DispatchMode
	mu      sync.RWMutex
	subs    map[core.EventType]map[int64]subscription
	nextID  int64
	queue   chan core.Event
	workers int
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewEventBus(mode DispatchMode) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	b := &EventBus{
		mode:    mode,
		subs:    make(map[core.EventType]map[int64]subscription),
		queue:   make(chan core.Event, 1024),
		workers: 2,
		ctx:     ctx,
		cancel:  cancel,
	}
	if mode == DispatchAsync {
		b.startWorkers()
	}
	return b
}

func (b *EventBus) startWorkers() {
	for i := 0; i < b.workers; i++ {
		go func() {
			for {
				select {
				case ev := <-b.queue:
					b.dispatchSync(context.Background(), ev)
				case <-b.ctx.Done():
					return
				}
			}
		}()
	}
}

// Close stops async workers.
func (b *EventBus) Close() {
	b.cancel()
	// allow workers to drain briefly
	time.Sleep(10 * time.Millisecond)
}

// Subscribe registers a handler for an event type and returns an
// unsubscribe func.
func (b *EventBus) Subscribe(typ core.EventType, handler func(context.Context, core.Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	if b.subs[typ] == nil {
		b.subs[typ] = make(map[int64]subscription)
	}
	b.subs[typ][id] = subscription{id: id, fn: handler}
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if m := b.subs[typ]; m != nil {
			delete(m, id)
		}
	}
}

// Publish delivers an event to subscribers. In async mode a full queue
// drops the event rather than blocking the store.
func (b *EventBus) Publish(ctx context.Context, ev core.Event) {
	if b.mode == DispatchAsync {
		select {
		case b.queue <- ev:
		default:
		}
		return
	}
	b.dispatchSync(ctx, ev)
}

func (b *EventBus) dispatchSync(ctx context.Context, ev core.Event) {
	b.mu.RLock()
	subs := b.subs[ev.Type]
	// copy to avoid holding the lock during callbacks
	handlers := make([]func(context.Context, core.Event), 0, len(subs))
	for _, s := range subs {
		handlers = append(handlers, s.fn)
	}
	b.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, ev)
	}
}
