// Command todo serves a todo list built from litecmp components.
//
// The page is rendered once; the browser posts events to the component
// endpoints and swaps in the returned markup.
package main

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pthm/litecmp"
	litecmpchi "github.com/pthm/litecmp/adapters/chi"
	"github.com/pthm/litecmp/lib/dom"
)

const page = `<html><head><title>todo</title></head><body>
<main><div id="todos"></div><footer id="remaining"></footer></main>
</body></html>`

// app wires the store, the runtime and the HTTP routes.
type app struct {
	store  *Store
	list   *litecmp.Component
	srv    *litecmpchi.Server
	router chi.Router
	doc    *dom.Document
}

func newApp(logger *zap.Logger, reg prometheus.Registerer, opts ...litecmp.RuntimeOption) (*app, error) {
	doc, err := dom.Parse(page)
	if err != nil {
		return nil, err
	}
	rt := litecmp.NewRuntime(doc, append([]litecmp.RuntimeOption{
		litecmp.WithLogger(logger),
		litecmp.WithRegistry(litecmp.NewRegistry()),
		litecmp.WithMetrics(litecmp.NewMetrics(reg)),
	}, opts...)...)

	store := NewStore()
	remaining := litecmp.NewState(map[string]any{"remaining": store.Remaining()})
	list := newTodoList(rt, store, remaining)
	counter := newCounter(rt)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	srv := litecmpchi.Mount(r, rt, litecmpchi.WithLogger(logger))

	err = srv.Do(func(*litecmp.Runtime) error {
		if err := list.Mount("#todos"); err != nil {
			return err
		}
		if err := counter.Mount("#remaining"); err != nil {
			return err
		}
		remaining.Subscribe(func(v any) {
			_ = counter.Update(v)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	a := &app{store: store, list: list, srv: srv, router: r, doc: doc}
	r.Get("/", a.handleIndex)
	return a, nil
}

func (a *app) handleIndex(w http.ResponseWriter, r *http.Request) {
	var markup string
	_ = a.srv.Do(func(*litecmp.Runtime) error {
		markup = dom.OuterHTML(a.doc.Root())
		return nil
	})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(markup))
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	litecmp.SetLogger(logger)

	reg := prometheus.NewRegistry()
	a, err := newApp(logger, reg)
	if err != nil {
		logger.Fatal("setup failed", zap.Error(err))
	}
	a.router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	addr := ":8080"
	if v := os.Getenv("ADDR"); v != "" {
		addr = v
	}
	logger.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, a.router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
