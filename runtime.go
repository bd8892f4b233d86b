package litecmp

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pthm/litecmp/lib/dom"
	"github.com/pthm/litecmp/lib/encoding"
)

// DefaultKeyAttr is the attribute RenderList stamps on keyed fragments.
const DefaultKeyAttr = "data-key"

// Config holds runtime-wide settings.
type Config struct {
	// KeyAttr is the attribute name used for keyed fragments.
	KeyAttr string
	// SnapshotKey signs and encrypts component snapshots. A random key is
	// generated when empty, so snapshots only survive within one process.
	SnapshotKey []byte
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithRegistry sets the registry mounted components are recorded in.
// Defaults to DefaultRegistry.
func WithRegistry(reg *Registry) RuntimeOption {
	return func(rt *Runtime) {
		rt.registry = reg
	}
}

// WithLogger sets the logger for hook and handler failures.
func WithLogger(l *zap.Logger) RuntimeOption {
	return func(rt *Runtime) {
		rt.logger = l
	}
}

// WithMetrics records lifecycle activity into m.
func WithMetrics(m *Metrics) RuntimeOption {
	return func(rt *Runtime) {
		rt.metrics = m
	}
}

// WithConfig replaces the runtime configuration.
func WithConfig(cfg Config) RuntimeOption {
	return func(rt *Runtime) {
		rt.cfg = cfg
	}
}

// Runtime binds components to a host document.
//
// A Runtime is not safe for concurrent use: every Mount, Update, SetState,
// Unmount and event dispatch must happen on one goroutine, or be serialised
// by the caller (see adapters/chi).
type Runtime struct {
	doc      *dom.Document
	registry *Registry
	logger   *zap.Logger
	metrics  *Metrics
	encoder  *encoding.Encoder
	cfg      Config
}

// NewRuntime creates a runtime for doc.
func NewRuntime(doc *dom.Document, opts ...RuntimeOption) *Runtime {
	rt := &Runtime{
		doc:      doc,
		registry: DefaultRegistry,
		logger:   Logger(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.cfg.KeyAttr == "" {
		rt.cfg.KeyAttr = DefaultKeyAttr
	}
	if rt.logger == nil {
		rt.logger = zap.NewNop()
	}
	if rt.registry == nil {
		rt.registry = NewRegistry()
	}

	key := rt.cfg.SnapshotKey
	if len(key) == 0 {
		key = randomKey()
	}
	enc, err := encoding.NewEncoder(key)
	if err != nil {
		panic(fmt.Sprintf("litecmp: failed to create encoder: %v", err))
	}
	rt.encoder = enc

	return rt
}

// Document returns the host document.
func (rt *Runtime) Document() *dom.Document {
	return rt.doc
}

// Registry returns the registry mounted components are recorded in.
func (rt *Runtime) Registry() *Registry {
	return rt.registry
}

// Config returns the runtime configuration.
func (rt *Runtime) Config() Config {
	return rt.cfg
}

// Create defines a component from a render function and options. The
// returned handle is not mounted.
func (rt *Runtime) Create(render RenderFunc, opts Options) *Component {
	if render == nil {
		panic("litecmp: Create called with nil render function")
	}
	c := &Component{
		rt:     rt,
		render: render,
		opts:   opts,
		name:   opts.Name,
	}
	if c.name == "" {
		c.name = "component"
	}
	c.inst = c.newInstance()
	return c
}

// Dispatch fires an event of type typ at the first element matching sel.
func (rt *Runtime) Dispatch(sel, typ string, detail map[string]any) (*dom.Event, error) {
	target, err := rt.doc.Query(sel)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("%w: no element matches %q", ErrNotFound, sel)
	}
	ev := dom.NewEvent(typ, detail)
	rt.doc.Dispatch(target, ev)
	return ev, nil
}
