package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLMS struct {
	*httptest.Server

	mu      sync.Mutex
	queries []string
}

func (f *fakeLMS) lastQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queries) == 0 {
		return ""
	}

	return f.queries[len(f.queries)-1]
}

func newFakeLMS(t *testing.T) *fakeLMS {
	t.Helper()

	f := &fakeLMS{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.queries = append(f.queries, r.URL.RawQuery)
		f.mu.Unlock()

		if r.Header.Get("wstoken") != "ws" || r.Header.Get("apitoken") != "api" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid tokens"}`))

			return
		}

		switch r.URL.Path {
		case "/api/courses/":
			_, _ = w.Write([]byte(`[{"ID":1},{"ID":2}]`))
		case "/api/course/locations":
			_, _ = w.Write([]byte(`[{"LOCATION":"Perth"}]`))
		case "/api/course/instances":
			_ = json.NewEncoder(w).Encode([]map[string]string{{"COURSEID": r.URL.Query().Get("id")}})
		default:
			_, _ = w.Write([]byte(`{"ok":true}`))
		}
	}))
	t.Cleanup(f.Close)

	return f
}

// execute runs the CLI against an empty config directory with the LMS
// settings taken from the environment.
func execute(t *testing.T, ctx context.Context, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	args = append([]string{"--config-dir", t.TempDir()}, args...)
	code := run(ctx, args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func setLMSEnv(t *testing.T, baseURL, wsToken string) {
	t.Helper()

	t.Setenv("AXCELERATE_BASE_URL", baseURL)
	t.Setenv("AXCELERATE_WS_TOKEN", wsToken)
	t.Setenv("AXCELERATE_API_TOKEN", "api")
	t.Setenv("AXCELERATE_RETRY_ATTEMPTS", "0")
	t.Setenv("AXCELERATE_TIMEOUT", "2")
}

func TestTestCommand_Success(t *testing.T) {
	lms := newFakeLMS(t)
	setLMSEnv(t, lms.URL, "ws")

	code, stdout, _ := execute(t, context.Background(), "test")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Testing connection to "+lms.URL)
	assert.Contains(t, stdout, "Connection successful!")
	assert.Contains(t, stdout, `"ok": true`)
	assert.NotContains(t, stdout, "LMS overview")
}

func TestTestCommand_Overview(t *testing.T) {
	lms := newFakeLMS(t)
	setLMSEnv(t, lms.URL, "ws")

	code, stdout, _ := execute(t, context.Background(), "test", "--overview")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "- Courses: 2")
	assert.Contains(t, stdout, "- Locations: 1")
}

func TestTestCommand_Failures(t *testing.T) {
	lms := newFakeLMS(t)

	tests := []struct {
		name    string
		baseURL string
		wsToken string
	}{
		{name: "invalid tokens", baseURL: lms.URL, wsToken: "wrong"},
		{name: "missing tokens", baseURL: lms.URL, wsToken: ""},
		{name: "missing base url", baseURL: "", wsToken: "ws"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setLMSEnv(t, tt.baseURL, tt.wsToken)

			code, stdout, stderr := execute(t, context.Background(), "test")

			assert.Equal(t, 1, code)
			assert.Contains(t, stdout, "Connection failed: ")
			assert.NotContains(t, stdout, "Connection successful!")
			assert.NotContains(t, stderr, "error: reported")
		})
	}
}

func TestCoursesCommand(t *testing.T) {
	lms := newFakeLMS(t)
	setLMSEnv(t, lms.URL, "ws")

	code, stdout, _ := execute(t, context.Background(), "courses", "--current", "yes", "--updated-after", "2024-01-01")

	require.Equal(t, 0, code)
	assert.Equal(t, "type=all&current=true&lastUpdated_min=2024-01-01", lms.lastQuery())

	var courses []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &courses))
	assert.Len(t, courses, 2)
}

func TestCoursesCommand_ValidationError(t *testing.T) {
	lms := newFakeLMS(t)
	setLMSEnv(t, lms.URL, "ws")

	code, _, stderr := execute(t, context.Background(), "courses", "--type", "x")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "error: ")
	assert.Contains(t, stderr, "type")
	assert.Empty(t, lms.lastQuery())
}

func TestInstancesCommand(t *testing.T) {
	lms := newFakeLMS(t)
	setLMSEnv(t, lms.URL, "ws")

	t.Run("single course", func(t *testing.T) {
		code, stdout, _ := execute(t, context.Background(), "instances", "--id", "12", "--public", "1")

		require.Equal(t, 0, code)
		assert.Equal(t, "public=true&type=w&id=12", lms.lastQuery())
		assert.Contains(t, stdout, `"COURSEID": "12"`)
	})

	t.Run("several courses keep order", func(t *testing.T) {
		code, stdout, _ := execute(t, context.Background(), "instances", "--id", "1", "--id", "2", "--id", "3")

		require.Equal(t, 0, code)

		var bodies [][]map[string]string
		require.NoError(t, json.Unmarshal([]byte(stdout), &bodies))
		require.Len(t, bodies, 3)
		assert.Equal(t, "1", bodies[0][0]["COURSEID"])
		assert.Equal(t, "3", bodies[2][0]["COURSEID"])
	})

	t.Run("id required", func(t *testing.T) {
		code, _, stderr := execute(t, context.Background(), "instances")

		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "at least one --id is required")
	})
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	code, _, stderr := execute(t, context.Background(), "--log-level", "loud", "test")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid config")
	assert.Contains(t, stderr, "log.level")
}

func TestRoot_Version(t *testing.T) {
	code, stdout, _ := execute(t, context.Background(), "--version")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, Version)
}

func TestChangedParams(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("type", "all", "")
	flags.String("current", "", "")
	flags.String("public", "", "")
	require.NoError(t, flags.Parse([]string{"--public", "no"}))

	p := changedParams(flags, []flagParam{
		{flag: "type", param: "type", always: true},
		{flag: "current", param: "current"},
		{flag: "public", param: "public"},
		{flag: "missing", param: "missing"},
	})

	assert.Equal(t, []string{"type", "public"}, p.Names())
	assert.Equal(t, "type=all&public=no", p.Encode())
}

func freePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port
}

func TestServeCommand(t *testing.T) {
	lms := newFakeLMS(t)
	setLMSEnv(t, lms.URL, "ws")
	t.Setenv("APP_SERVER_HOST", "127.0.0.1")

	port := freePort(t)
	base := "http://127.0.0.1:" + strconv.Itoa(port)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)

	go func() {
		code, _, _ := execute(t, ctx, "serve", "--port", strconv.Itoa(port))
		done <- code
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/-/live")
		if err != nil {
			return false
		}
		resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	resp, err := http.Get(base + "/-/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/-/lms/overview")
	require.NoError(t, err)

	var overview map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&overview))
	resp.Body.Close()
	assert.Equal(t, map[string]int{"courses": 2, "locations": 1}, overview)

	cancel()

	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}
