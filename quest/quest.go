// Package quest is the batteries-included entry point: it assembles a
// game store from options and bridges engine events to realtime and
// webhook consumers.
package quest

import (
	"context"
	"log/slog"
	"time"

	"wordquest/adapters/memory"
	"wordquest/core"
	"wordquest/engine"
	"wordquest/integrations/webhook"
	"wordquest/realtime"
)

// Option configures the quest service builder.
type Option func(*config)

type config struct {
	storage  engine.Storage
	mode     engine.DispatchMode
	hub      *realtime.Hub
	sink     *webhook.Sink
	clock    func() time.Time
	storeOps []engine.StoreOption
}

// WithStorage sets the persistence adapter.
func WithStorage(s engine.Storage) Option { return func(c *config) { c.storage = s } }

// WithDispatchMode selects sync or async event dispatch.
func WithDispatchMode(m engine.DispatchMode) Option { return func(c *config) { c.mode = m } }

// WithRealtime wires a realtime hub to receive all engine events.
func WithRealtime(h *realtime.Hub) Option { return func(c *config) { c.hub = h } }

// WithWebhooks posts every engine event to the given endpoints.
func WithWebhooks(endpoints []string, opts ...webhook.Option) Option {
	return func(c *config) {
		if len(endpoints) > 0 {
			c.sink = webhook.New(endpoints, opts...)
		}
	}
}

// WithClock overrides the store clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.storeOps = append(c.storeOps, engine.WithClock(now)) }
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.storeOps = append(c.storeOps, engine.WithLogger(l)) }
}

// New builds a configured game store. Defaults: in-memory storage,
// async dispatch, no realtime or webhook fan-out.
func New(ctx context.Context, opts ...Option) *engine.Store {
	cfg := &config{mode: engine.DispatchAsync}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.storage == nil {
		cfg.storage = memory.New()
	}
	bus := engine.NewEventBus(cfg.mode)
	store := engine.NewStore(ctx, cfg.storage, bus, cfg.storeOps...)
	for _, typ := range core.EventTypes() {
		typ := typ
		if cfg.hub != nil {
			bus.Subscribe(typ, func(ctx context.Context, e core.Event) { cfg.hub.Broadcast(ctx, e) })
		}
		if cfg.sink != nil {
			bus.Subscribe(typ, func(_ context.Context, e core.Event) { cfg.sink.OnEvent(e) })
		}
	}
	return store
}
