package litecmpchi

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pthm/litecmp"
)

func newCounter(t *testing.T) (*chi.Mux, *Server, *litecmp.Component) {
	t.Helper()

	host := litecmp.NewTestHost(`<div id="app"></div>`)
	counter := host.Runtime.Create(func(v litecmp.View) (string, error) {
		return fmt.Sprintf(`<span>Count: %v</span><button class="inc">+</button>`, v.Get("count")), nil
	}, litecmp.Options{
		State: map[string]any{"count": 0},
		On: map[string]litecmp.EventHandler{
			"click .inc": func(c *litecmp.Component, e *litecmp.EventContext) error {
				step := 1
				if e.Event.Detail["step"] == "5" {
					step = 5
				}
				return c.SetState(litecmp.Updater(func(cur any) any {
					return map[string]any{"count": cur.(map[string]any)["count"].(int) + step}
				}))
			},
			"close": func(c *litecmp.Component, e *litecmp.EventContext) error {
				c.Unmount()
				return nil
			},
		},
	})

	r := chi.NewRouter()
	srv := Mount(r, host.Runtime)
	if err := srv.Do(func(*litecmp.Runtime) error { return counter.Mount("#app") }); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return r, srv, counter
}

func postEvent(r http.Handler, path string, form url.Values, hx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if hx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGetComponent(t *testing.T) {
	r, srv, counter := newCounter(t)

	req := httptest.NewRequest(http.MethodGet, srv.URL(counter), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `<div id="app"><span>Count: 0</span>`) {
		t.Errorf("body = %s", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestGetUnknownComponent(t *testing.T) {
	r, _, _ := newCounter(t)

	req := httptest.NewRequest(http.MethodGet, "/_c/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPostEvent(t *testing.T) {
	r, srv, counter := newCounter(t)
	path := srv.URL(counter) + "/events"

	rec := postEvent(r, path, url.Values{"type": {"click"}, "selector": {".inc"}}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Count: 1") {
		t.Errorf("body = %s, want Count: 1", rec.Body.String())
	}

	rec = postEvent(r, path, url.Values{"type": {"click"}, "selector": {".inc"}, "step": {"5"}}, true)
	if !strings.Contains(rec.Body.String(), "Count: 6") {
		t.Errorf("body = %s, want Count: 6", rec.Body.String())
	}
}

func TestPostEventErrors(t *testing.T) {
	r, srv, counter := newCounter(t)
	path := srv.URL(counter) + "/events"

	tests := []struct {
		name string
		path string
		form url.Values
		hx   bool
		want int
	}{
		{"missing header", path, url.Values{"type": {"click"}}, false, http.StatusForbidden},
		{"missing type", path, url.Values{"selector": {".inc"}}, true, http.StatusBadRequest},
		{"bad selector", path, url.Values{"type": {"click"}, "selector": {"[["}}, true, http.StatusBadRequest},
		{"no match", path, url.Values{"type": {"click"}, "selector": {".missing"}}, true, http.StatusNotFound},
		{"unknown id", "/_c/nope/events", url.Values{"type": {"click"}}, true, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postEvent(r, tt.path, tt.form, tt.hx)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestPostEventUnmounts(t *testing.T) {
	r, srv, counter := newCounter(t)
	url1 := srv.URL(counter)

	rec := postEvent(r, url1+"/events", url.Values{"type": {"close"}}, true)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, url1, nil)
	get := httptest.NewRecorder()
	r.ServeHTTP(get, req)
	if get.Code != http.StatusNotFound {
		t.Errorf("GET after unmount = %d, want 404", get.Code)
	}
}

func TestWithPath(t *testing.T) {
	host := litecmp.NewTestHost(`<div id="app"></div>`)
	srv := NewServer(host.Runtime, WithPath("/components/"))

	if srv.Path() != "/components" {
		t.Errorf("Path() = %q", srv.Path())
	}
}

func TestRender(t *testing.T) {
	host := litecmp.NewTestHost(``)
	page := host.Runtime.Create(func(litecmp.View) (string, error) {
		return `<main>page</main>`, nil
	}, litecmp.Options{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	if err := Render(rec, req, page.Templ()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("<main>page</main>")) {
		t.Errorf("body = %s", rec.Body.String())
	}
}
