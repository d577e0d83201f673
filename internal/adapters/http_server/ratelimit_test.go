package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	redisad "nevado_reviews/internal/adapters/redis"
	"nevado_reviews/internal/domain"
)

type memCounterStore struct {
	windows map[string]domain.Window
	fail    bool
	puts    int
}

func newMemCounterStore() *memCounterStore {
	return &memCounterStore{windows: map[string]domain.Window{}}
}

func (m *memCounterStore) Get(_ context.Context, key string) (domain.Window, bool, error) {
	if m.fail {
		return domain.Window{}, false, errors.New("store down")
	}
	w, ok := m.windows[key]
	return w, ok, nil
}

func (m *memCounterStore) Put(_ context.Context, key string, w domain.Window, _ time.Duration) error {
	if m.fail {
		return errors.New("store down")
	}
	m.windows[key] = w
	m.puts++
	return nil
}

func limitedHandler(store domain.CounterStore, max int, window time.Duration, now func() time.Time) http.Handler {
	l := NewRateLimiter(store, max, window)
	if now != nil {
		l.now = now
	}
	return l.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func hit(t *testing.T, h http.Handler, ip string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/reviews", nil)
	req.RemoteAddr = ip + ":12345"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitAllowsUpToMax(t *testing.T) {
	store := newMemCounterStore()
	h := limitedHandler(store, 3, time.Minute, nil)

	for i := 1; i <= 3; i++ {
		rec := hit(t, h, "10.0.0.1")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, rec.Code)
		}
		wantRemaining := strconv.Itoa(3 - i)
		if got := rec.Header().Get("X-RateLimit-Remaining"); got != wantRemaining {
			t.Fatalf("request %d: remaining %q, want %q", i, got, wantRemaining)
		}
	}

	rec := hit(t, h, "10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status %d", rec.Code)
	}
	retry, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	if err != nil {
		t.Fatalf("Retry-After: %v", err)
	}
	if retry < 1 || retry > 60 {
		t.Fatalf("Retry-After %d out of range", retry)
	}
}

func TestRateLimitRejectionNotPersisted(t *testing.T) {
	store := newMemCounterStore()
	h := limitedHandler(store, 2, time.Minute, nil)

	hit(t, h, "10.0.0.2")
	hit(t, h, "10.0.0.2")
	putsBefore := store.puts

	rec := hit(t, h, "10.0.0.2")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status %d", rec.Code)
	}
	if store.puts != putsBefore {
		t.Fatal("rejected request must not write the counter")
	}
	if store.windows["ratelimit:10.0.0.2"].Requests != 2 {
		t.Fatalf("count changed: %+v", store.windows["ratelimit:10.0.0.2"])
	}
}

func TestRateLimitPerIP(t *testing.T) {
	store := newMemCounterStore()
	h := limitedHandler(store, 1, time.Minute, nil)

	if rec := hit(t, h, "10.0.0.3"); rec.Code != http.StatusOK {
		t.Fatalf("first ip: %d", rec.Code)
	}
	if rec := hit(t, h, "10.0.0.3"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("first ip second request: %d", rec.Code)
	}
	if rec := hit(t, h, "10.0.0.4"); rec.Code != http.StatusOK {
		t.Fatalf("second ip must have its own window: %d", rec.Code)
	}
}

func TestRateLimitStaleWindowRestarts(t *testing.T) {
	store := newMemCounterStore()
	current := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }
	h := limitedHandler(store, 2, time.Minute, now)

	hit(t, h, "10.0.0.5")
	hit(t, h, "10.0.0.5")
	rejected := hit(t, h, "10.0.0.5")
	if rejected.Code != http.StatusTooManyRequests {
		t.Fatalf("status %d", rejected.Code)
	}
	// Reset reports the window's end in epoch milliseconds.
	wantReset := strconv.FormatInt(current.UnixMilli()+time.Minute.Milliseconds(), 10)
	if got := rejected.Header().Get("X-RateLimit-Reset"); got != wantReset {
		t.Fatalf("reset %q, want %q", got, wantReset)
	}

	// Past the window the counter restarts, anchored at the new instant.
	current = current.Add(61 * time.Second)
	rec := hit(t, h, "10.0.0.5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status after window: %d", rec.Code)
	}
	wantReset = strconv.FormatInt(current.UnixMilli()+time.Minute.Milliseconds(), 10)
	if got := rec.Header().Get("X-RateLimit-Reset"); got != wantReset {
		t.Fatalf("reset after restart %q, want %q", got, wantReset)
	}
	w := store.windows["ratelimit:10.0.0.5"]
	if w.Requests != 1 {
		t.Fatalf("restarted window count %d", w.Requests)
	}
	if w.WindowStart != current.UnixMilli() {
		t.Fatalf("window start %d, want %d", w.WindowStart, current.UnixMilli())
	}
}

func TestRateLimitOverRedisSetsTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	h := limitedHandler(redisad.NewCounterStore(client), 100, time.Minute, nil)

	if rec := hit(t, h, "10.0.0.7"); rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	// Window keys expire at twice the window so a live window never
	// vanishes under the limiter.
	ttl := mr.TTL("ratelimit:10.0.0.7")
	if ttl != 2*time.Minute {
		t.Fatalf("ttl %v", ttl)
	}
}

func TestRateLimitFailOpen(t *testing.T) {
	store := newMemCounterStore()
	store.fail = true
	h := limitedHandler(store, 1, time.Minute, nil)

	for i := 0; i < 5; i++ {
		if rec := hit(t, h, "10.0.0.6"); rec.Code != http.StatusOK {
			t.Fatalf("request %d blocked while store down: %d", i, rec.Code)
		}
	}
}
