// Package litecmpchi serves mounted litecmp components over HTTP with a
// chi router.
//
// Every mounted component is reachable by its ID:
//
//	GET  /_c/{id}         host markup
//	POST /_c/{id}/events  dispatch an event, respond with the new markup
//
// Mount the routes on an existing router:
//
//	r := chi.NewRouter()
//	srv := litecmpchi.Mount(r, rt)
//	_ = srv.Do(func(rt *litecmp.Runtime) error { return counter.Mount("#app") })
package litecmpchi

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/pthm/litecmp"
	"github.com/pthm/litecmp/lib/dom"
)

// Option configures Mount and NewServer.
type Option func(*options)

type options struct {
	path   string
	logger *zap.Logger
}

// WithPath sets the URL prefix for component routes. Defaults to "/_c".
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithLogger sets the logger for request failures. Defaults to
// litecmp.Logger().
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Server exposes a runtime's mounted components. A Runtime is single
// threaded, so the server holds a lock around every runtime call; other
// code touching the same runtime must go through Do.
type Server struct {
	mu     sync.Mutex
	rt     *litecmp.Runtime
	path   string
	logger *zap.Logger
}

// NewServer creates a server for rt without attaching any routes.
func NewServer(rt *litecmp.Runtime, opts ...Option) *Server {
	o := &options{path: "/_c"}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = litecmp.Logger()
	}
	return &Server{
		rt:     rt,
		path:   "/" + strings.Trim(o.path, "/"),
		logger: o.logger,
	}
}

// Mount creates a server and attaches its routes to r.
func Mount(r chi.Router, rt *litecmp.Runtime, opts ...Option) *Server {
	s := NewServer(rt, opts...)
	r.Mount(s.path, s.Routes())
	return s
}

// Routes returns a router serving the component endpoints relative to the
// server path.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/{id}", s.handleGet)
	r.With(requireHXRequest).Post("/{id}/events", s.handleEvent)
	return r
}

// Path returns the URL prefix the routes are mounted under.
func (s *Server) Path() string {
	return s.path
}

// URL returns the GET URL for c.
func (s *Server) URL(c *litecmp.Component) string {
	return strings.TrimSuffix(s.path, "/") + "/" + c.ID()
}

// Do runs fn while holding the runtime lock.
func (s *Server) Do(fn func(rt *litecmp.Runtime) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.rt)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.rt.Registry().Lookup(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "component not found", http.StatusNotFound)
		return
	}
	writeHTML(w, http.StatusOK, dom.OuterHTML(c.El()))
}

// handleEvent dispatches the form's "type" event at the first element
// inside the host matching "selector" (the host itself when empty). The
// remaining form values are passed as event detail.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	typ := r.PostForm.Get("type")
	if typ == "" {
		http.Error(w, "missing event type", http.StatusBadRequest)
		return
	}
	selector := r.PostForm.Get("selector")

	detail := make(map[string]any, len(r.PostForm))
	for k, v := range r.PostForm {
		if k == "type" || k == "selector" || len(v) == 0 {
			continue
		}
		detail[k] = v[0]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	c, err := s.rt.Registry().Lookup(id)
	if err != nil {
		http.Error(w, "component not found", http.StatusNotFound)
		return
	}

	target, err := findTarget(c.El(), selector)
	switch {
	case errors.Is(err, litecmp.ErrInvalidSelector):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case target == nil:
		http.Error(w, "no element matches selector", http.StatusNotFound)
		return
	}

	s.rt.Document().Dispatch(target, dom.NewEvent(typ, detail))
	s.logger.Debug("litecmpchi: dispatched",
		zap.String("id", id),
		zap.String("type", typ),
		zap.String("selector", selector))

	// The handler may have unmounted the component.
	if !c.Mounted() || c.El() == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeHTML(w, http.StatusOK, dom.OuterHTML(c.El()))
}

func findTarget(host *html.Node, selector string) (*html.Node, error) {
	if host == nil {
		return nil, nil
	}
	if selector == "" {
		return host, nil
	}
	sel, err := dom.Compile(selector)
	if err != nil {
		return nil, err
	}
	return sel.MatchFirst(host), nil
}

// requireHXRequest rejects requests without the HX-Request header, which
// cross-site form posts cannot set.
func requireHXRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("HX-Request") == "" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeHTML(w http.ResponseWriter, status int, markup string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(markup))
}

// Render writes a templ component, such as Component.Templ(), as the
// response body.
//
//	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
//	    _ = litecmpchi.Render(w, r, page.Templ())
//	})
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}
