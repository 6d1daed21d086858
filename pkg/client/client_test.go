package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/meshline/meshline-go/internal/config"
	"github.com/meshline/meshline-go/internal/realtime"
	"github.com/meshline/meshline-go/internal/session"
)

type navRecorder struct {
	mu      sync.Mutex
	targets []string
	onNav   func(target string)
}

func (n *navRecorder) Navigate(target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.onNav != nil {
		n.onNav(target)
	}
	n.targets = append(n.targets, target)
}

func (n *navRecorder) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.targets))
	copy(out, n.targets)
	return out
}

type fixture struct {
	client    *Client
	store     *session.Store
	transport *realtime.MemoryTransport
	channel   *realtime.Handle
	nav       *navRecorder
	srv       *httptest.Server
}

func newFixture(t *testing.T, handler http.Handler) *fixture {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := session.Open(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("open session store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	transport := realtime.NewMemoryTransport()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	channel := realtime.NewHandle(transport, quiet)
	nav := &navRecorder{}

	cfg := config.APIConfig{
		BaseURL:      srv.URL,
		Timeout:      5 * time.Second,
		MaxAttempts:  3,
		Backoff:      time.Millisecond,
		LoginPath:    "/login",
		IPServiceURL: srv.URL + "/external/ip",
	}
	c, err := New(cfg, srv.Client(), store, channel, nav)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return &fixture{client: c, store: store, transport: transport, channel: channel, nav: nav, srv: srv}
}

// connect seeds a stored credential and an open channel, as after a login.
func (f *fixture) connect(t *testing.T, token string) {
	t.Helper()
	if err := f.store.Save(context.Background(), token, "user-1"); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := f.channel.Connect(token); err != nil {
		t.Fatalf("connect channel: %v", err)
	}
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	store, err := session.Open(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("open session store: %v", err)
	}
	defer store.Close()

	_, err = New(config.APIConfig{BaseURL: "not a url"}, nil, store, nil, nil)
	if err == nil {
		t.Fatal("expected error for invalid base url")
	}
}

func TestNewRequiresSessionStore(t *testing.T) {
	_, err := New(config.APIConfig{BaseURL: "http://localhost"}, nil, nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for nil session store")
	}
}

func TestBearerAttachedWhenSessionActive(t *testing.T) {
	var got string
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	f.connect(t, "tok-123")

	if _, err := f.client.UserInfo(context.Background()); err != nil {
		t.Fatalf("UserInfo: %v", err)
	}
	if got != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want Bearer tok-123", got)
	}
}

func TestNoBearerWithoutSession(t *testing.T) {
	var got string
	var present bool
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, present = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))

	if _, err := f.client.UserInfo(context.Background()); err != nil {
		t.Fatalf("UserInfo: %v", err)
	}
	if present {
		t.Fatalf("Authorization header present without session: %q", got)
	}
}

func TestUnauthorizedForcesLogout(t *testing.T) {
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	f.connect(t, "stale-token")

	// at navigation time the credential must already be gone and the
	// channel already down
	f.nav.onNav = func(string) {
		if f.store.Active(context.Background()) {
			t.Error("session still active at navigation time")
		}
		if f.channel.Connected() {
			t.Error("channel still connected at navigation time")
		}
	}

	_, err := f.client.UserInfo(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}

	visited := f.nav.visited()
	if len(visited) != 1 || visited[0] != "/login?expired=true" {
		t.Fatalf("navigated to %v, want [/login?expired=true]", visited)
	}
}

func TestUnauthorizedIsNotRetried(t *testing.T) {
	var hits int
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	f.connect(t, "stale-token")

	_, err := f.client.UserInfo(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if hits != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}
}

func TestGetRetriesOnServerError(t *testing.T) {
	var hits int
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	}))

	if _, err := f.client.UserInfo(context.Background()); err != nil {
		t.Fatalf("UserInfo after retries: %v", err)
	}
	if hits != 3 {
		t.Fatalf("hits = %d, want 3", hits)
	}
}

func TestGetDoesNotRetryClientError(t *testing.T) {
	var hits int
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))

	_, err := f.client.UserInfo(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", apiErr.Status)
	}
	if hits != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}
}

func TestMutatingRequestRunsOnce(t *testing.T) {
	var hits int
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := f.client.BlockUser(context.Background(), "user-2")
	if err == nil {
		t.Fatal("expected error from failing POST")
	}
	if hits != 1 {
		t.Fatalf("hits = %d, want 1 (mutations never retry)", hits)
	}
}
