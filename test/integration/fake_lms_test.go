//go:build integration

package integration

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// recordedRequest is one call the fake tenant received.
type recordedRequest struct {
	Method   string
	Path     string
	Query    string
	Body     string
	WSToken  string
	APIToken string
}

// reply is a canned answer. The first Failures calls get a 503.
type reply struct {
	Status   int
	Body     string
	Failures int
}

// fakeLMS is an in-process aXcelerate tenant. Routes are keyed by
// "METHOD /api/path"; unknown routes answer 200 with {}.
type fakeLMS struct {
	server *httptest.Server

	wsToken  string
	apiToken string

	mu       sync.Mutex
	routes   map[string]*reply
	requests []recordedRequest
}

func newFakeLMS(tb testing.TB) *fakeLMS {
	tb.Helper()

	f := &fakeLMS{
		wsToken:  "ws-token",
		apiToken: "api-token",
		routes:   make(map[string]*reply),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	tb.Cleanup(f.server.Close)

	return f
}

func (f *fakeLMS) URL() string {
	return f.server.URL
}

func (f *fakeLMS) on(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.routes[method+" "+path] = &reply{Status: status, Body: body}
}

func (f *fakeLMS) failFirst(method, path string, failures int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.routes[method+" "+path]
	if !ok {
		r = &reply{Status: http.StatusOK, Body: `{}`}
		f.routes[method+" "+path] = r
	}
	r.Failures = failures
}

func (f *fakeLMS) received() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeLMS) last() (recordedRequest, bool) {
	reqs := f.received()
	if len(reqs) == 0 {
		return recordedRequest{}, false
	}

	return reqs[len(reqs)-1], true
}

func (f *fakeLMS) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:   r.Method,
		Path:     r.URL.Path,
		Query:    r.URL.RawQuery,
		Body:     string(body),
		WSToken:  r.Header.Get("wstoken"),
		APIToken: r.Header.Get("apitoken"),
	})

	route, ok := f.routes[r.Method+" "+r.URL.Path]
	status, payload := http.StatusOK, `{}`
	if ok {
		status, payload = route.Status, route.Body
		if route.Failures > 0 {
			route.Failures--
			status, payload = http.StatusServiceUnavailable, `{"message":"try again"}`
		}
	}
	f.mu.Unlock()

	if r.Header.Get("wstoken") != f.wsToken || r.Header.Get("apitoken") != f.apiToken {
		status, payload = http.StatusUnauthorized, `{"message":"invalid tokens"}`
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, payload)
}
