package quest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	mem "wordquest/adapters/memory"
	"wordquest/core"
	"wordquest/engine"
	"wordquest/realtime"
)

func TestNewDefaultsAndOptions(t *testing.T) {
	hub := realtime.NewHub()
	store := New(context.Background(),
		WithRealtime(hub),
		WithStorage(mem.New()),
		WithDispatchMode(engine.DispatchSync),
	)
	defer store.Close()

	_, ch := hub.Subscribe(4)

	total, err := store.AddXP(context.Background(), 25)
	if err != nil || total != 25 {
		t.Fatalf("add xp total=%d err=%v", total, err)
	}

	// realtime bridge should receive the event
	ev := <-ch
	if ev.Type != core.EventXPAdded || ev.Delta != 25 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestInMemoryFallback(t *testing.T) {
	store := New(context.Background(), WithDispatchMode(engine.DispatchSync))
	defer store.Close()

	if _, err := store.AddCoins(context.Background(), 30); err != nil {
		t.Fatalf("fallback add coins: %v", err)
	}
	if got := store.State().Coins; got != 30 {
		t.Fatalf("expected 30 coins, got %d", got)
	}
}

func TestWebhookBridge(t *testing.T) {
	var hits int32
	var lastBody atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		b, _ := io.ReadAll(r.Body)
		lastBody.Store(b)
		_ = r.Body.Close()
	}))
	defer srv.Close()

	store := New(context.Background(),
		WithWebhooks([]string{srv.URL}),
		WithDispatchMode(engine.DispatchSync),
	)
	defer store.Close()

	if _, err := store.AddXP(context.Background(), 10); err != nil {
		t.Fatalf("add xp: %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("expected 1 webhook delivery, got %d", hits)
	}
	var ev core.Event
	if err := json.Unmarshal(lastBody.Load().([]byte), &ev); err != nil {
		t.Fatalf("decode delivery: %v", err)
	}
	if ev.Type != core.EventXPAdded {
		t.Fatalf("unexpected event type: %s", ev.Type)
	}
}
