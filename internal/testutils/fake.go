// Package testutils provides an in-process fake of the content service for tests.
package testutils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/folio/api"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/transport"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Recorded is one request seen by the FakeService.
type Recorded struct {
	Method    string
	Path      string
	Pattern   string
	Query     string
	RequestID string
}

// StreamScript controls what the generate and chat routes send for a scene.
type StreamScript struct {
	Chunks []string
	// Error is sent as an error frame after the chunks.
	Error string
	// Hold keeps the connection open after the chunks until the client leaves.
	Hold bool
}

type failure struct {
	status int
	detail string
}

// FakeService is an httptest server implementing the routes of api/openapi.yaml
// over in-memory data. Routes missing from the document are rejected with 501.
type FakeService struct {
	srv    *httptest.Server
	router *chi.Mux
	doc    *openapi3.T
	base   string
	quit   chan struct{}
	once   sync.Once

	mu            sync.Mutex
	novels        []domain.Novel
	chapters      []domain.Chapter
	scenes        []domain.Scene
	characters    []domain.Character
	lores         []domain.Lore
	relationships []domain.Relationship
	rag           map[string][]domain.RAGSummary
	scripts       map[string]StreamScript
	failures      map[string]failure
	requests      []Recorded
	violations    []string
}

// NewFakeService starts the fake and registers its shutdown with t.Cleanup.
func NewFakeService(t testing.TB) *FakeService {
	t.Helper()

	doc, err := api.Load(context.Background())
	require.NoError(t, err, "embedded openapi document must load")

	f := &FakeService{
		doc:      doc,
		base:     api.BasePath(doc),
		quit:     make(chan struct{}),
		rag:      make(map[string][]domain.RAGSummary),
		scripts:  make(map[string]StreamScript),
		failures: make(map[string]failure),
	}
	f.router = chi.NewRouter()
	f.router.Use(middleware.RequestID)
	f.router.Use(middleware.Recoverer)
	f.router.Route(f.base, f.routes)

	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// URL is the service endpoint without the base path.
func (f *FakeService) URL() string { return f.srv.URL }

// Client returns a transport client pointed at the fake.
func (f *FakeService) Client(t testing.TB, opts ...transport.Option) *transport.Client {
	t.Helper()
	c, err := transport.New(f.srv.URL, opts...)
	require.NoError(t, err)
	return c
}

// Close releases held streams and stops the server. It is idempotent.
func (f *FakeService) Close() {
	f.once.Do(func() {
		close(f.quit)
		f.srv.Close()
	})
}

// Handle registers an extra route below the base path, e.g. to probe the contract check.
func (f *FakeService) Handle(method, pattern string, h http.HandlerFunc) {
	f.router.Method(method, f.base+pattern, h)
}

// Fail makes the next request matching method and route pattern (e.g. "/novels/{id}")
// answer with status and a {"detail": ...} body.
func (f *FakeService) Fail(method, pattern string, status int, detail string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+pattern] = failure{status: status, detail: detail}
}

// Script sets what the streaming routes send for sceneID.
func (f *FakeService) Script(sceneID string, s StreamScript) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[sceneID] = s
}

// Requests returns every request seen so far, in arrival order.
func (f *FakeService) Requests() []Recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Recorded, len(f.requests))
	copy(out, f.requests)
	return out
}

// Patterns returns "METHOD /pattern" for every request, in arrival order.
func (f *FakeService) Patterns() []string {
	var out []string
	for _, r := range f.Requests() {
		out = append(out, r.Method+" "+r.Pattern)
	}
	return out
}

// Violations lists requests that matched a route the document does not describe.
func (f *FakeService) Violations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.violations...)
}

func (f *FakeService) serve(w http.ResponseWriter, r *http.Request) {
	found := f.router.Find(chi.NewRouteContext(), r.Method, r.URL.Path)
	if found == "" {
		f.router.ServeHTTP(w, r)
		return
	}
	pattern := strings.TrimPrefix(found, f.base)

	f.mu.Lock()
	f.requests = append(f.requests, Recorded{
		Method:    r.Method,
		Path:      r.URL.Path,
		Pattern:   pattern,
		Query:     r.URL.RawQuery,
		RequestID: r.Header.Get(transport.RequestIDHeader),
	})
	if api.Operation(f.doc, r.Method, pattern) == nil {
		f.violations = append(f.violations, r.Method+" "+pattern)
		f.mu.Unlock()
		writeDetail(w, http.StatusNotImplemented, "route not in contract: "+r.Method+" "+pattern)
		return
	}
	key := r.Method + " " + pattern
	fail, failing := f.failures[key]
	if failing {
		delete(f.failures, key)
	}
	f.mu.Unlock()

	if failing {
		writeDetail(w, fail.status, fail.detail)
		return
	}
	f.router.ServeHTTP(w, r)
}

func newID() string {
	return uuid.NewString()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func notFound(w http.ResponseWriter, kind string) {
	writeDetail(w, http.StatusNotFound, fmt.Sprintf("%s not found", kind))
}

// missingQuery mimics the service's validation error for a required query parameter.
func missingQuery(w http.ResponseWriter, name string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{
			"loc":  []string{"query", name},
			"msg":  "field required",
			"type": "value_error.missing",
		}},
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body: "+err.Error())
		return false
	}
	return true
}
