package visualization

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nvandessel/vecsim/internal/audit"
	"github.com/nvandessel/vecsim/internal/ratelimit"
	"github.com/nvandessel/vecsim/internal/session"
)

func startServer(t *testing.T, sess *session.Session, store *audit.Store) *Server {
	t.Helper()
	srv := NewServer(sess, store, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go srv.ListenAndServe(ctx)
	waitForServer(t, srv, 2*time.Second)
	return srv
}

func postAction(t *testing.T, srv *Server, body string) (*http.Response, session.Result) {
	t.Helper()
	resp, err := http.Post("http://"+srv.Addr()+"/api/action", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST /api/action: %v", err)
	}
	defer resp.Body.Close()

	var res session.Result
	if resp.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			t.Fatalf("decode result: %v", err)
		}
	}
	return resp, res
}

func TestServer_ServesHTML(t *testing.T) {
	srv := startServer(t, newTestSession(t), nil)

	resp, err := http.Get("http://" + srv.Addr() + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET / status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q, want text/html; charset=utf-8", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"push_back(val)", `<option value="double">`, "sizeof(a)/sizeof(a[0])", `"capacity":4`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestServer_UnknownPath(t *testing.T) {
	srv := startServer(t, newTestSession(t), nil)

	resp, err := http.Get("http://" + srv.Addr() + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestServer_State(t *testing.T) {
	sess := newTestSession(t)
	apply(t, sess, session.OpPush, "42")
	srv := startServer(t, sess, nil)

	resp, err := http.Get("http://" + srv.Addr() + "/api/state")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var snap session.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Vector.Data() != "42" || snap.View != session.ViewVector {
		t.Errorf("state = %+v", snap.Vector)
	}
}

func TestServer_Action(t *testing.T) {
	store, err := audit.Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	sess := newTestSession(t)
	srv := startServer(t, sess, store)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantOK     bool
		wantSize   int
	}{
		{"push valid", `{"op":"push","value":"5"}`, http.StatusOK, true, 1},
		{"push invalid", `{"op":"push","value":"abc"}`, http.StatusUnprocessableEntity, false, 1},
		{"pop", `{"op":"pop"}`, http.StatusOK, true, 0},
		{"pop empty", `{"op":"pop"}`, http.StatusUnprocessableEntity, false, 0},
		{"bad view", `{"op":"view","value":"tree"}`, http.StatusUnprocessableEntity, false, 0},
		{"unknown op", `{"op":"fly"}`, http.StatusBadRequest, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, res := postAction(t, srv, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if res.OK != tt.wantOK {
				t.Errorf("ok = %v, want %v (error %q)", res.OK, tt.wantOK, res.Error)
			}
			if res.Snapshot.Vector.Size != tt.wantSize {
				t.Errorf("size = %d, want %d", res.Snapshot.Vector.Size, tt.wantSize)
			}
		})
	}

	if got := sess.Snapshot().Vector.Log[0]; got != "Error: cannot pop_back() on an empty vector." {
		t.Errorf("latest log = %q", got)
	}

	entries, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(tests) {
		t.Fatalf("audit entries = %d, want %d", len(entries), len(tests))
	}
	if entries[len(entries)-1].Action != "push" || entries[len(entries)-1].Surface != "http" {
		t.Errorf("oldest entry = %+v", entries[len(entries)-1])
	}
	if entries[1].Status != "error" {
		t.Errorf("bad view entry status = %q", entries[1].Status)
	}
}

func TestServer_MalformedAction(t *testing.T) {
	srv := startServer(t, newTestSession(t), nil)

	resp, _ := postAction(t, srv, `{"op":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	resp, err := http.Get("http://" + srv.Addr() + "/api/action")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/action status = %d, want 405", resp.StatusCode)
	}
}

func TestServer_ActionRequiresJSON(t *testing.T) {
	sess := newTestSession(t)
	srv := startServer(t, sess, nil)

	tests := []struct {
		name        string
		contentType string
		want        int
	}{
		{"form post", "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"text plain", "text/plain", http.StatusUnsupportedMediaType},
		{"missing", "", http.StatusUnsupportedMediaType},
		{"json with charset", "application/json; charset=utf-8", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "http://"+srv.Addr()+"/api/action",
				bytes.NewBufferString(`{"op":"push","value":"1"}`))
			if err != nil {
				t.Fatal(err)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}

	if got := sess.Snapshot().Vector.Size; got != 1 {
		t.Errorf("Size = %d, want 1 (only the JSON request applied)", got)
	}
}

func TestServer_RecordAfterClientCancel(t *testing.T) {
	store, err := audit.Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	sess := newTestSession(t)
	srv := NewServer(sess, store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	srv.record(ctx, session.Action{Op: session.OpPush, Value: "1"}, session.Result{Snapshot: sess.Snapshot()}, nil, 0)

	entries, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Surface != "http" || entries[0].Action != "push" {
		t.Errorf("entries = %+v, want one http push row", entries)
	}
}

func TestServer_CleanShutdown(t *testing.T) {
	srv := NewServer(newTestSession(t), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx) }()

	waitForServer(t, srv, 2*time.Second)

	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("unexpected error on shutdown: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down within 3 seconds")
	}
}

func TestRenderHTML_EscapesState(t *testing.T) {
	sess := newTestSession(t)
	apply(t, sess, session.OpText, "</script><b>")

	html, err := RenderHTML(sess.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(html), "</script><b>") {
		t.Error("state JSON must not break out of the script element")
	}
}

// waitForServer polls the server until it's ready or the timeout is reached.
func waitForServer(t *testing.T, srv *Server, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		addr := srv.Addr()
		if addr == "" {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		resp, err := http.Get("http://" + addr + "/")
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("server did not start within timeout")
}

func TestServer_LimitActions(t *testing.T) {
	srv := NewServer(newTestSession(t), nil, nil).LimitActions(ratelimit.Limit{Rate: 0, Burst: 2})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.ListenAndServe(ctx)
	waitForServer(t, srv, 2*time.Second)

	for i := 0; i < 2; i++ {
		if resp, _ := postAction(t, srv, `{"op":"show"}`); resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d status = %d", i+1, resp.StatusCode)
		}
	}
	if resp, _ := postAction(t, srv, `{"op":"show"}`); resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", resp.StatusCode)
	}
}
