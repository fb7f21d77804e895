package httpapi

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	wsadapter "wordquest/adapters/websocket"
	"wordquest/content"
	"wordquest/core"
	"wordquest/engine"
	"wordquest/realtime"
)

// Options configures the HTTP API surface.
type Options struct {
	// PathPrefix, if set, is prepended to all routes (e.g., "/api").
	PathPrefix string
	// AllowCORSOrigin, if non-empty, enables basic CORS with the given origin (use "*" for any).
	AllowCORSOrigin string
	// APIKeys, if non-empty, enables static API key auth via Authorization: Bearer or X-API-Key.
	APIKeys []string
	// RateLimitEnabled toggles rate limiting.
	RateLimitEnabled bool
	// RateLimitRPM is the allowed requests per minute per client key.
	RateLimitRPM int
	// RateLimitBurst defines burst capacity.
	RateLimitBurst int
}

// NewMux builds an http.Handler exposing the game REST API and WebSocket stream.
// Routes:
//   - GET  {prefix}/state
//   - GET  {prefix}/healthz
//   - WS   {prefix}/ws
//   - POST {prefix}/profile
//   - POST {prefix}/xp?amount=25
//   - POST {prefix}/coins/add?amount=10
//   - POST {prefix}/coins/spend?amount=10
//   - POST {prefix}/hearts/lose
//   - POST {prefix}/hearts/reset
//   - POST {prefix}/levels/complete
//   - POST {prefix}/streak
//   - POST {prefix}/daily/complete?date=2026-08-31
//   - POST {prefix}/combo?count=3
//   - POST {prefix}/shop/{item}
//   - POST {prefix}/badges/evaluate
//   - POST {prefix}/reset
//   - GET  {prefix}/daily?date=2026-08-31
//   - GET  {prefix}/content/{module}?lang=en&age=7-9
func NewMux(store *engine.Store, catalog *content.Catalog, hub *realtime.Hub, opts Options) http.Handler {
	mux := http.NewServeMux()
	route := func(path string, h http.HandlerFunc) {
		mux.HandleFunc(withPrefix(opts.PathPrefix, path), h)
	}

	route("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"status": "healthy"})
	})

	if hub != nil {
		mux.Handle(withPrefix(opts.PathPrefix, "/ws"), wsadapter.Handler(hub))
	}

	route("/state", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET", nil)
			return
		}
		writeJSON(w, store.State())
	})

	route("/profile", post(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name             string `json:"name"`
			AgeGroup         string `json:"ageGroup"`
			AvatarID         string `json:"avatarId"`
			UILanguage       string `json:"uiLanguage"`
			LearningLanguage string `json:"learningLanguage"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "malformed JSON", nil)
			return
		}
		profile, err := core.NewProfile(body.Name, core.AgeGroup(body.AgeGroup), body.AvatarID,
			core.Language(body.UILanguage), core.Language(body.LearningLanguage))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_profile", err.Error(), nil)
			return
		}
		if err := store.SetProfile(r.Context(), profile); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_profile", err.Error(), nil)
			return
		}
		writeJSON(w, profile)
	}))

	route("/xp", post(func(w http.ResponseWriter, r *http.Request) {
		amount, ok := intQuery(w, r, "amount")
		if !ok {
			return
		}
		total, err := store.AddXP(r.Context(), amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
			return
		}
		writeJSON(w, map[string]any{"total": total, "level": core.LevelFromXP(total)})
	}))

	route("/coins/add", post(func(w http.ResponseWriter, r *http.Request) {
		amount, ok := intQuery(w, r, "amount")
		if !ok {
			return
		}
		total, err := store.AddCoins(r.Context(), amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
			return
		}
		writeJSON(w, map[string]any{"total": total})
	}))

	route("/coins/spend", post(func(w http.ResponseWriter, r *http.Request) {
		amount, ok := intQuery(w, r, "amount")
		if !ok {
			return
		}
		if err := store.SpendCoins(r.Context(), amount); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, engine.ErrInsufficientCoins) {
				status = http.StatusConflict
			}
			writeError(w, status, "spend_failed", err.Error(), nil)
			return
		}
		writeJSON(w, map[string]any{"total": store.State().Coins})
	}))

	route("/hearts/lose", post(func(w http.ResponseWriter, r *http.Request) {
		remaining := store.LoseHeart(r.Context())
		writeJSON(w, map[string]any{"hearts": remaining})
	}))

	route("/hearts/reset", post(func(w http.ResponseWriter, r *http.Request) {
		store.ResetHearts(r.Context())
		writeJSON(w, map[string]any{"hearts": core.MaxHearts()})
	}))

	route("/levels/complete", post(func(w http.ResponseWriter, r *http.Request) {
		var rec core.CompletedLevel
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", "malformed JSON", nil)
			return
		}
		if rec.LevelID == "" || rec.Module == "" {
			writeError(w, http.StatusBadRequest, "invalid_body", "levelId and moduleSlug are required", nil)
			return
		}
		store.CompleteLevel(r.Context(), rec)
		writeJSON(w, map[string]any{"ok": true})
	}))

	route("/streak", post(func(w http.ResponseWriter, r *http.Request) {
		streak, newDay := store.UpdateStreak(r.Context())
		writeJSON(w, map[string]any{"streak": streak, "newDay": newDay})
	}))

	route("/daily/complete", post(func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			date = core.Today()
		}
		if _, err := time.Parse(core.DateLayout, date); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", nil)
			return
		}
		store.CompleteDailyChallenge(r.Context(), date)
		writeJSON(w, map[string]any{"ok": true, "date": date})
	}))

	route("/daily", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET", nil)
			return
		}
		date := r.URL.Query().Get("date")
		if date == "" {
			date = core.Today()
		}
		if _, err := time.Parse(core.DateLayout, date); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", nil)
			return
		}
		writeJSON(w, map[string]any{
			"date":      date,
			"module":    core.DailyModule(date),
			"completed": store.State().DailyCompleted(date),
		})
	})

	route("/combo", post(func(w http.ResponseWriter, r *http.Request) {
		count, ok := intQuery(w, r, "count")
		if !ok {
			return
		}
		store.SetCombo(r.Context(), count)
		writeJSON(w, map[string]any{"combo": store.State().ComboCount})
	}))

	route("/shop/", post(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, opts.PathPrefix)
		itemID := strings.TrimPrefix(path, "/shop/")
		if itemID == "" || strings.Contains(itemID, "/") {
			writeError(w, http.StatusNotFound, "not_found", "route not found", nil)
			return
		}
		if err := store.Purchase(r.Context(), itemID); err != nil {
			status := http.StatusBadRequest
			switch {
			case errors.Is(err, engine.ErrUnknownItem):
				status = http.StatusNotFound
			case errors.Is(err, engine.ErrAlreadyOwned):
				status = http.StatusConflict
			case errors.Is(err, engine.ErrInsufficientCoins):
				status = http.StatusConflict
			}
			writeError(w, status, "purchase_failed", err.Error(), nil)
			return
		}
		writeJSON(w, map[string]any{"ok": true, "coins": store.State().Coins})
	}))

	route("/badges/evaluate", post(func(w http.ResponseWriter, r *http.Request) {
		awarded := store.EvaluateBadges(r.Context())
		if awarded == nil {
			awarded = []string{}
		}
		writeJSON(w, map[string]any{"awarded": awarded})
	}))

	route("/reset", post(func(w http.ResponseWriter, r *http.Request) {
		if err := store.Reset(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	}))

	route("/content/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET", nil)
			return
		}
		if catalog == nil {
			writeError(w, http.StatusNotFound, "not_found", "no content catalog configured", nil)
			return
		}
		path := strings.TrimPrefix(r.URL.Path, opts.PathPrefix)
		module := core.ModuleSlug(strings.TrimPrefix(path, "/content/"))
		lang := core.Language(r.URL.Query().Get("lang"))
		if lang == "" {
			lang = core.LangEN
		}
		if ageStr := r.URL.Query().Get("age"); ageStr != "" {
			age, err := core.ParseAgeGroup(ageStr)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_age", err.Error(), nil)
				return
			}
			writeJSON(w, map[string]any{"levels": emptyIfNil(catalog.LevelsByAgeGroup(lang, module, age))})
			return
		}
		writeJSON(w, map[string]any{"levels": emptyIfNil(catalog.Levels(lang, module))})
	})

	var handler http.Handler = mux
	if opts.AllowCORSOrigin != "" {
		handler = withCORS(handler, opts.AllowCORSOrigin)
	}
	if len(opts.APIKeys) > 0 {
		handler = withAPIKeyAuth(handler, opts.APIKeys)
	}
	if opts.RateLimitEnabled && opts.RateLimitRPM > 0 && opts.RateLimitBurst > 0 {
		handler = withRateLimit(handler, opts.RateLimitRPM, opts.RateLimitBurst)
	}
	return handler
}

// Helpers

func post(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST", nil)
			return
		}
		h(w, r)
	}
}

func intQuery(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+name, name+" must be an integer", nil)
		return 0, false
	}
	return v, true
}

func emptyIfNil(levels []content.Level) []content.Level {
	if levels == nil {
		return []content.Level{}
	}
	return levels
}

func withPrefix(prefix, path string) string {
	if prefix == "" || prefix == "/" {
		return path
	}
	if prefix[len(prefix)-1] == '/' {
		return prefix[:len(prefix)-1] + path
	}
	return prefix + path
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiError{Code: code, Message: msg, Details: details})
}

// withCORS wraps a handler with a minimal CORS policy.
func withCORS(next http.Handler, origin string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Vary", "Origin")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withAPIKeyAuth enforces a shared API key list.
func withAPIKeyAuth(next http.Handler, apiKeys []string) http.Handler {
	allowed := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		k = strings.TrimSpace(k)
		if k != "" {
			allowed[k] = struct{}{}
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := extractAPIKey(r)
		if key == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing API key", nil)
			return
		}
		if _, ok := allowed[key]; !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid API key", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit applies a simple token-bucket limiter per client key.
func withRateLimit(next http.Handler, rpm int, burst int) http.Handler {
	limiter := newRateLimiter(rpm, burst)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !limiter.allow(key) {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractAPIKey(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	return ""
}

// clientKey uses API key if present, otherwise remote IP.
func clientKey(r *http.Request) string {
	if key := extractAPIKey(r); key != "" {
		return key
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type rateLimiter struct {
	rpm   float64
	burst float64
	mu    sync.Mutex
	b     map[string]*bucket
}

type bucket struct {
	tokens float64
	last   time.Time
}

func newRateLimiter(rpm, burst int) *rateLimiter {
	return &rateLimiter{
		rpm:   float64(rpm),
		burst: float64(burst),
		b:     make(map[string]*bucket),
	}
}

func (l *rateLimiter) allow(key string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.b[key]
	if !ok {
		l.b[key] = &bucket{tokens: l.burst - 1, last: now}
		return true
	}

	elapsed := now.Sub(b.last).Minutes()
	b.tokens += elapsed * l.rpm
	if b.tokens > l.burst {
		b.tokens = l.burst
	}
	if b.tokens < 1 {
		b.last = now
		return false
	}
	b.tokens--
	b.last = now
	return true
}
