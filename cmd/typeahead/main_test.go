package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newUpstream(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users" {
			http.NotFound(w, r)
			return
		}
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "name": "Leanne Graham", "username": "Bret"},
			{"id": 2, "name": "Ervin Howell", "username": "Antonette"},
			{"id": 3, "name": "Clementine Bauch", "username": "Samantha"},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func baseArgs(cmd, url string) []string {
	return []string{cmd, "--users-url", url, "--log-level", "error", "--metrics", "none"}
}

func TestRun_Usage(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), nil, nil, io.Discard, &stderr))
	assert.Contains(t, stderr.String(), "usage: typeahead")

	stderr.Reset()
	assert.Equal(t, 2, run(context.Background(), []string{"frobnicate"}, nil, io.Discard, &stderr))
	assert.Contains(t, stderr.String(), `unknown command "frobnicate"`)
}

func TestSuggest(t *testing.T) {
	srv, calls := newUpstream(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), append(baseArgs("suggest", srv.URL), "ervin"), nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "Ervin Howell\n", stdout.String())
	assert.EqualValues(t, 1, calls.Load())
}

func TestSuggest_PrefixModeAndLimit(t *testing.T) {
	srv, _ := newUpstream(t)
	var stdout, stderr bytes.Buffer

	args := append(baseArgs("suggest", srv.URL), "--mode", "prefix", "--limit", "1", "b")
	require.Equal(t, 0, run(context.Background(), args, nil, &stdout, &stderr), stderr.String())
	assert.Equal(t, "Clementine Bauch\n", stdout.String())
}

func TestSuggest_MissingQuery(t *testing.T) {
	srv, calls := newUpstream(t)
	var stderr bytes.Buffer

	assert.Equal(t, 2, run(context.Background(), baseArgs("suggest", srv.URL), nil, io.Discard, &stderr))
	assert.Contains(t, stderr.String(), "<query>")
	assert.Zero(t, calls.Load())
}

func TestSuggest_UpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"msg":"no such resource"}`))
	}))
	t.Cleanup(srv.Close)
	var stderr bytes.Buffer

	code := run(context.Background(), append(baseArgs("suggest", srv.URL), "lea"), nil, io.Discard, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "no such resource")
}

func TestSuggest_InvalidConfig(t *testing.T) {
	var stderr bytes.Buffer
	code := run(context.Background(), []string{"suggest", "--mode", "fuzzy", "lea"}, nil, io.Discard, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "search.mode")
}

func TestInteractive(t *testing.T) {
	srv, calls := newUpstream(t)
	stdin, input := io.Pipe()
	stdout := &syncBuffer{}
	var stderr syncBuffer

	done := make(chan int, 1)
	go func() {
		args := append(baseArgs("interactive", srv.URL), "--debounce", "100ms")
		done <- run(context.Background(), args, stdin, stdout, &stderr)
	}()

	// Keystrokes typed faster than the debounce collapse into one search.
	for _, text := range []string{"l", "le", "lea", "lean"} {
		_, err := io.WriteString(input, text+"\n")
		require.NoError(t, err)
	}
	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "1. Leanne Graham")
	}, 3*time.Second, 5*time.Millisecond)
	assert.NotContains(t, stdout.String(), `"l":`)

	_, err := io.WriteString(input, "!1\n")
	require.NoError(t, err)
	require.NoError(t, input.Close())

	select {
	case code := <-done:
		require.Equal(t, 0, code, stderr.String())
	case <-time.After(2 * time.Second):
		t.Fatal("interactive did not exit at end of input")
	}

	out := stdout.String()
	assert.Contains(t, out, "selected: Leanne Graham")
	assert.Contains(t, out, `"Leanne Graham": 1 suggestion(s)`)
	assert.EqualValues(t, 1, calls.Load(), "the cached listing answers the selection")
}

func TestInteractive_BadPick(t *testing.T) {
	srv, _ := newUpstream(t)
	stdout := &syncBuffer{}

	code := run(context.Background(), baseArgs("interactive", srv.URL), strings.NewReader("!3\n"), stdout, io.Discard)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "no such suggestion")
}

// endlessInput yields the same line forever.
type endlessInput struct{}

func (endlessInput) Read(p []byte) (int, error) {
	return copy(p, "lean\n"), nil
}

func TestReadLines_StopsWhenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	lines := readLines(ctx, endlessInput{})
	require.Equal(t, "lean", <-lines)
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-lines:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("reader kept sending after cancel")
		}
	}
}

func TestInteractive_ExitsOnCancel(t *testing.T) {
	srv, _ := newUpstream(t)
	stdin, input := io.Pipe()
	defer input.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, baseArgs("interactive", srv.URL), stdin, io.Discard, io.Discard)
	}()

	_, err := io.WriteString(input, "le\n")
	require.NoError(t, err)
	cancel()

	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(2 * time.Second):
		t.Fatal("interactive did not exit on cancel")
	}
}

func TestParsePick(t *testing.T) {
	tests := []struct {
		line   string
		want   int
		wantOK bool
	}{
		{"!1", 1, true},
		{" !12 ", 12, true},
		{"!x", 0, false},
		{"Leanne", 0, false},
		{"!", 0, false},
	}
	for _, tt := range tests {
		n, ok := parsePick(tt.line)
		assert.Equal(t, tt.wantOK, ok, tt.line)
		assert.Equal(t, tt.want, n, tt.line)
	}
}
