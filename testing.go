package litecmp

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/net/html"

	"github.com/pthm/litecmp/lib/dom"
)

// TestHost bundles a document, a runtime with its own registry, and an
// in-memory log sink for component tests.
//
//	host := litecmp.NewTestHost(`<div id="app"></div>`)
//	counter := host.Runtime.Create(render, opts)
//	_ = counter.Mount("#app")
//	_ = host.Click("#app button")
//	if !strings.Contains(host.InnerHTML("#app"), "Count: 1") { ... }
type TestHost struct {
	Doc      *dom.Document
	Runtime  *Runtime
	Registry *Registry
	Logs     *observer.ObservedLogs
}

// NewTestHost parses body as the contents of <body> and creates a runtime
// on it. Extra options are applied after the test defaults.
func NewTestHost(body string, opts ...RuntimeOption) *TestHost {
	doc := dom.MustParse("<html><body>" + body + "</body></html>")
	core, logs := observer.New(zapcore.DebugLevel)
	reg := NewRegistry()

	all := append([]RuntimeOption{
		WithRegistry(reg),
		WithLogger(zap.New(core)),
	}, opts...)

	return &TestHost{
		Doc:      doc,
		Runtime:  NewRuntime(doc, all...),
		Registry: reg,
		Logs:     logs,
	}
}

// Click dispatches a click at the first element matching sel.
func (h *TestHost) Click(sel string) error {
	return h.Dispatch(sel, "click", nil)
}

// Dispatch fires an event of type typ at the first element matching sel.
func (h *TestHost) Dispatch(sel, typ string, detail map[string]any) error {
	_, err := h.Runtime.Dispatch(sel, typ, detail)
	return err
}

// Query returns the first element matching sel, or nil.
func (h *TestHost) Query(sel string) *html.Node {
	n, err := h.Doc.Query(sel)
	if err != nil {
		return nil
	}
	return n
}

// InnerHTML returns the serialized children of the first match of sel.
func (h *TestHost) InnerHTML(sel string) string {
	return dom.InnerHTML(h.Query(sel))
}

// Text returns the text content of the first match of sel.
func (h *TestHost) Text(sel string) string {
	return dom.Text(h.Query(sel))
}

// ListenerCount returns how many typ listeners are bound on c's host.
func (h *TestHost) ListenerCount(c *Component, typ string) int {
	if c.El() == nil {
		return 0
	}
	return h.Doc.ListenerCount(c.El(), typ)
}

// ErrorLogs returns the error-level entries logged so far.
func (h *TestHost) ErrorLogs() []observer.LoggedEntry {
	return h.Logs.FilterLevelExact(zapcore.ErrorLevel).All()
}

// TestRender renders a definition once with props, without a document.
// Slots are resolved; hooks and events are not involved.
func TestRender(render RenderFunc, opts Options, props any) (string, error) {
	doc, err := dom.Parse("<html><body></body></html>")
	if err != nil {
		return "", fmt.Errorf("litecmp: test document: %w", err)
	}
	rt := NewRuntime(doc, WithRegistry(NewRegistry()), WithLogger(zap.NewNop()))
	return rt.Create(render, opts).HTML(props)
}
