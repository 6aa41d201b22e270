package visualization

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/nvandessel/vecsim/internal/audit"
	"github.com/nvandessel/vecsim/internal/elemtype"
	"github.com/nvandessel/vecsim/internal/ratelimit"
	"github.com/nvandessel/vecsim/internal/session"
)

// maxActionBytes bounds the size of a POST /api/action body.
const maxActionBytes = 64 << 10

// Server serves the interactive playground page and its JSON API.
type Server struct {
	session    *session.Session
	audit      *audit.Store
	limiter    *ratelimit.Limiter
	logger     *slog.Logger
	httpServer *http.Server
	listener   net.Listener
	mu         sync.Mutex
	addr       string
}

// NewServer creates a playground server for sess. The audit store and logger may be nil.
func NewServer(sess *session.Session, auditStore *audit.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		session: sess,
		audit:   auditStore,
		logger:  logger,
	}
}

// LimitActions rate limits POST /api/action per client host.
func (s *Server) LimitActions(lim ratelimit.Limit) *Server {
	s.limiter = ratelimit.New(lim)
	return s
}

// Addr returns the address the server is listening on (e.g., "localhost:PORT").
// Returns empty string if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Handler returns the HTTP routes of the playground.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/action", s.handleAction)
	return mux
}

// ListenAndServe starts the HTTP server on an OS-assigned port and blocks
// until the context is cancelled. Returns nil on clean shutdown.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	s.mu.Lock()
	s.listener = ln
	s.addr = ln.Addr().String()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.mu.Unlock()

	s.logger.Info("playground server listening", "addr", s.Addr())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	err = s.httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// indexData holds data passed to the HTML template.
// StateJSON is pre-sanitized JSON (via json.HTMLEscape) safe for inline <script>.
type indexData struct {
	StateJSON  template.JS
	Types      []elemtype.Kind
	Comparison ComparisonData
}

// RenderHTML produces the playground page with the given initial state.
func RenderHTML(snap session.Snapshot) ([]byte, error) {
	stateJSON, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}

	tmpl, err := template.ParseFS(templates, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse HTML template: %w", err)
	}

	// Typed values reach the page, so escape </script> breakouts.
	var escaped bytes.Buffer
	json.HTMLEscape(&escaped, stateJSON)

	var buf bytes.Buffer
	data := indexData{
		StateJSON:  template.JS(escaped.String()), // #nosec G203
		Types:      elemtype.All(),
		Comparison: Compare(),
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute HTML template: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	html, err := RenderHTML(s.session.Snapshot())
	if err != nil {
		http.Error(w, "render error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

// handleAction applies one JSON-encoded action and returns the Result.
// Rejected actions (invalid input, empty vector, unknown type or view) answer 422;
// malformed requests answer 400 and non-JSON bodies 415.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if s.limiter != nil {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !s.limiter.Allow(host) {
			http.Error(w, "too many actions, slow down", http.StatusTooManyRequests)
			return
		}
	}

	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != "application/json" {
		http.Error(w, "actions must be sent as application/json", http.StatusUnsupportedMediaType)
		return
	}

	var action session.Action
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxActionBytes))
	if err := dec.Decode(&action); err != nil {
		http.Error(w, "invalid action body: "+err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	res, err := s.session.Apply(r.Context(), action)
	s.record(r.Context(), action, res, err, time.Since(start))

	status := http.StatusOK
	switch {
	case errors.Is(err, session.ErrUnknownAction):
		status = http.StatusBadRequest
	case err != nil:
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, res)
}

// record writes an audit row. It runs even when the client has gone away.
func (s *Server) record(ctx context.Context, a session.Action, res session.Result, err error, d time.Duration) {
	entry := audit.Entry{
		Surface:    "http",
		Action:     string(a.Op),
		Value:      a.Value,
		DurationMs: d.Milliseconds(),
		Status:     "success",
		Size:       res.Snapshot.Vector.Size,
		Capacity:   res.Snapshot.Vector.Capacity,
	}
	if err != nil {
		entry.Status = "error"
		entry.Error = err.Error()
	}
	if recErr := s.audit.Record(context.WithoutCancel(ctx), entry); recErr != nil {
		s.logger.Warn("audit record failed", "error", recErr)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
