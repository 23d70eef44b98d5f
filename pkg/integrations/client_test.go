package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cloudydeno/module-visualizer/pkg/cache"
	mverrors "github.com/cloudydeno/module-visualizer/pkg/errors"
	"github.com/cloudydeno/module-visualizer/pkg/observability"
)

func testClient(t *testing.T, server *httptest.Server, headers map[string]string) *Client {
	t.Helper()
	client := NewClient(cache.NewMemoryCache(0), "test", time.Hour, headers)
	client.http = server.Client()
	return client
}

func TestNewClientNilCache(t *testing.T) {
	client := NewClient(nil, "test", time.Hour, nil)
	if client.cache == nil {
		t.Fatal("NewClient() should default to a null cache")
	}
	if client.headers != nil {
		t.Error("NewClient() should allow nil headers")
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Latest string `json:"latest"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		json.NewEncoder(w).Encode(response{Latest: "v1.0.0"})
	}))
	defer server.Close()

	var resp response
	if err := testClient(t, server, nil).Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Latest != "v1.0.0" {
		t.Errorf("Get() latest = %q, want %q", resp.Latest, "v1.0.0")
	}
}

func TestClientGetWithHeadersOverridesDefaults(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := testClient(t, server, map[string]string{"Accept": "application/json", "X-Override": "default"})

	var resp map[string]string
	err := client.GetWithHeaders(context.Background(), server.URL, map[string]string{"X-Override": "overridden"}, &resp)
	if err != nil {
		t.Fatalf("GetWithHeaders() error: %v", err)
	}
	if v := got.Get("X-Override"); v != "overridden" {
		t.Errorf("X-Override = %q, want %q", v, "overridden")
	}
	if v := got.Get("Accept"); v != "application/json" {
		t.Errorf("Accept = %q, want %q", v, "application/json")
	}
}

func TestClientGetStatusErrors(t *testing.T) {
	tests := []struct {
		code      int
		wantErr   error
		retryable bool
	}{
		{http.StatusNotFound, ErrNotFound, false},
		{http.StatusInternalServerError, ErrNetwork, true},
		{http.StatusForbidden, ErrNetwork, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			}))
			defer server.Close()

			var resp map[string]string
			err := testClient(t, server, nil).Get(context.Background(), server.URL, &resp)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Get() error = %v, want %v", err, tt.wantErr)
			}
			if cache.IsRetryable(err) != tt.retryable {
				t.Errorf("IsRetryable(%v) = %v, want %v", err, !tt.retryable, tt.retryable)
			}
		})
	}
}

func TestClientRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	var resp map[string]string
	err := testClient(t, server, nil).Get(context.Background(), server.URL, &resp)
	if !mverrors.Is(err, mverrors.ErrCodeRateLimited) {
		t.Errorf("Get() error = %v, want RATE_LIMITED", err)
	}
}

func TestClientCached(t *testing.T) {
	client := NewClient(cache.NewMemoryCache(0), "test", time.Hour, nil)
	ctx := context.Background()

	type testData struct {
		Value string `json:"value"`
	}

	fetchCount := 0
	load := func(refresh bool) testData {
		var value testData
		err := client.Cached(ctx, "key", refresh, &value, func() error {
			fetchCount++
			value = testData{Value: "fetched"}
			return nil
		})
		if err != nil {
			t.Fatalf("Cached() error: %v", err)
		}
		return value
	}

	if got := load(false); got.Value != "fetched" {
		t.Errorf("first Cached() = %+v", got)
	}
	if got := load(false); got.Value != "fetched" {
		t.Errorf("second Cached() = %+v", got)
	}
	if fetchCount != 1 {
		t.Errorf("fetch count = %d, want 1", fetchCount)
	}

	load(true)
	if fetchCount != 2 {
		t.Errorf("fetch count after refresh = %d, want 2", fetchCount)
	}
}

func TestClientCachedFetchError(t *testing.T) {
	client := NewClient(cache.NewMemoryCache(0), "test", time.Hour, nil)

	var value string
	fetchCount := 0
	err := client.Cached(context.Background(), "missing", false, &value, func() error {
		fetchCount++
		return ErrNotFound // not retried
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Cached() error = %v, want ErrNotFound", err)
	}
	if fetchCount != 1 {
		t.Errorf("fetch count = %d, want 1", fetchCount)
	}
}

type httpRecorder struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *httpRecorder) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestClientReportsHTTPHooks(t *testing.T) {
	rec := &httpRecorder{}
	observability.SetHTTPHooks(rec)
	defer observability.Reset()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	var resp map[string]any
	_ = testClient(t, server, nil).Get(context.Background(), server.URL, &resp)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.statuses) != 1 || rec.statuses[0] != http.StatusNotFound {
		t.Errorf("OnResponse statuses = %v, want [404]", rec.statuses)
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient()
	if client.Timeout != httpTimeout {
		t.Errorf("Timeout = %v, want %v", client.Timeout, httpTimeout)
	}
}

func TestClientPost(t *testing.T) {
	type payload struct {
		Requires map[string]string `json:"requires"`
	}
	var gotMethod, gotType string
	var got payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	var resp struct {
		OK bool `json:"ok"`
	}
	in := payload{Requires: map[string]string{"react": "17.0.2"}}
	if err := testClient(t, server, nil).Post(context.Background(), server.URL, in, &resp); err != nil {
		t.Fatalf("Post() error: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotType)
	}
	if got.Requires["react"] != "17.0.2" {
		t.Errorf("payload = %+v", got)
	}
	if !resp.OK {
		t.Error("Post() did not decode the response")
	}
}
