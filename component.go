package litecmp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/pthm/litecmp/lib/dom"
)

// Status is a component's position in the mount/update/unmount cycle.
type Status int

const (
	StatusUnmounted Status = iota
	StatusMounting
	StatusMounted
	StatusUpdating
	StatusUnmounting
)

func (s Status) String() string {
	switch s {
	case StatusUnmounted:
		return "unmounted"
	case StatusMounting:
		return "mounting"
	case StatusMounted:
		return "mounted"
	case StatusUpdating:
		return "updating"
	case StatusUnmounting:
		return "unmounting"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// RenderFunc produces a component's markup. Returning "" renders nothing:
// the host is emptied and no listeners are bound.
//
// A returned error aborts the operation that triggered the render and is
// handed back to its caller wrapped in ErrRender.
type RenderFunc func(v View) (string, error)

// FromTempl adapts a templ-producing function into a RenderFunc. A nil
// templ.Component renders nothing.
func FromTempl(fn func(v View) templ.Component) RenderFunc {
	return func(v View) (string, error) {
		comp := fn(v)
		if comp == nil {
			return "", nil
		}
		var buf bytes.Buffer
		if err := comp.Render(context.Background(), &buf); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
}

// Options configures a component definition.
type Options struct {
	// Name labels the component in logs.
	Name string
	// State is the initial state. Maps are copied for every mount.
	State any
	// Props are the default props. Maps are copied for every mount.
	Props any
	// On maps "<event type> <selector>" to a handler. The selector may be
	// omitted to handle every event of that type inside the host.
	On map[string]EventHandler

	OnBeforeMount   []Hook
	OnMount         []Hook
	OnBeforeUnmount []Hook
	OnUnmount       []Hook
	OnUpdate        []UpdateHook
	OnBeforeRender  []RenderHook
}

// instance is the mutable record behind a Component for one mount cycle.
type instance struct {
	id        string
	props     any
	state     any
	prevProps any

	status          Status
	mounted         bool
	beforeMountDone bool
	renderedNull    bool
	renders         uint64

	el    *html.Node
	bound []BoundEvent
	refs  map[string]*html.Node

	onBeforeMount   []hookFunc[struct{}]
	onMount         []hookFunc[struct{}]
	onBeforeUnmount []hookFunc[struct{}]
	onUnmount       []hookFunc[struct{}]
	onUpdate        []hookFunc[any]
	onBeforeRender  []hookFunc[string]
}

// Component is the public handle returned by Runtime.Create.
//
// The handle outlives mount cycles: after Unmount it holds a fresh record
// with state and props reset to the Options defaults and may be mounted
// again.
type Component struct {
	rt     *Runtime
	name   string
	render RenderFunc
	opts   Options

	inst       *instance
	lastRender *html.Node
}

func (c *Component) newInstance() *instance {
	return &instance{
		id:              uuid.NewString(),
		props:           snapshot(c.opts.Props),
		state:           snapshot(c.opts.State),
		renderedNull:    true,
		onBeforeMount:   plainHooks(c.opts.OnBeforeMount),
		onMount:         plainHooks(c.opts.OnMount),
		onBeforeUnmount: plainHooks(c.opts.OnBeforeUnmount),
		onUnmount:       plainHooks(c.opts.OnUnmount),
		onUpdate:        updateHooks(c.opts.OnUpdate),
		onBeforeRender:  renderHooks(c.opts.OnBeforeRender),
	}
}

// ID identifies the current mount cycle. It changes after Unmount.
func (c *Component) ID() string { return c.inst.id }

// Name returns the component's name.
func (c *Component) Name() string { return c.name }

// Runtime returns the runtime the component was created by.
func (c *Component) Runtime() *Runtime { return c.rt }

// Props returns a copy of the current props.
func (c *Component) Props() any { return snapshot(c.inst.props) }

// State returns a copy of the current state.
func (c *Component) State() any { return snapshot(c.inst.state) }

// El returns the host element, or nil when unmounted.
func (c *Component) El() *html.Node { return c.inst.el }

// Status returns the lifecycle status.
func (c *Component) Status() Status { return c.inst.status }

// Mounted reports whether the component is mounted.
func (c *Component) Mounted() bool { return c.inst.mounted }

// RenderedNull reports whether the last render produced no markup.
func (c *Component) RenderedNull() bool { return c.inst.renderedNull }

// BoundEvents returns the listeners installed by the last render.
func (c *Component) BoundEvents() []BoundEvent {
	return append([]BoundEvent(nil), c.inst.bound...)
}

// Refs returns the elements carrying a ref attribute in the last render.
func (c *Component) Refs() map[string]*html.Node { return c.inst.refs }

// LastRender returns the copy of the host taken by the most recent Unmount.
func (c *Component) LastRender() *html.Node { return c.lastRender }

// Mount renders the component into the single element matching target.
//
// OnBeforeMount hooks run once per mount cycle and OnMount hooks run once
// after the component is registered. Mounting an already mounted component
// re-renders it (merging props, if given) without running hooks again.
func (c *Component) Mount(target string, props ...any) error {
	hosts, err := c.rt.doc.QueryAll(target)
	if err != nil {
		return &InvalidTargetError{Target: target, Err: err}
	}
	if len(hosts) != 1 {
		return &InvalidTargetError{Target: target, Matches: len(hosts)}
	}
	return c.mountOn(hosts[0], props)
}

// MountNode is Mount with an already resolved host element.
func (c *Component) MountNode(host *html.Node, props ...any) error {
	if host == nil || host.Type != html.ElementNode {
		return &InvalidTargetError{Target: "<node>"}
	}
	return c.mountOn(host, props)
}

func (c *Component) mountOn(host *html.Node, props []any) error {
	inst := c.inst
	if len(props) > 0 && props[0] != nil {
		inst.props = Merge(inst.props, props[0])
	}

	if inst.mounted {
		if inst.el != host {
			inst.bound = cleanupDomAndEvents(c, inst.el, inst.bound)
			inst.el = host
		}
		return c.renderCycle(inst)
	}

	inst.status = StatusMounting
	inst.el = host

	if !inst.beforeMountDone {
		inst.beforeMountDone = true
		runHooks(c, PhaseBeforeMount, &inst.onBeforeMount, struct{}{}, false)
		if c.inst != inst || inst.mounted {
			return nil
		}
	}

	if err := c.renderCycle(inst); err != nil {
		c.abortMount(inst)
		return err
	}
	if c.inst != inst || inst.mounted {
		return nil
	}

	if err := c.rt.registry.Register(c); err != nil {
		c.abortMount(inst)
		return err
	}
	inst.mounted = true
	inst.status = StatusMounted
	c.rt.metrics.mounted()
	c.rt.logger.Debug("litecmp: mounted",
		zap.String("component", c.name),
		zap.String("id", inst.id))

	runHooks(c, PhaseMount, &inst.onMount, struct{}{}, true)
	return nil
}

func (c *Component) abortMount(inst *instance) {
	inst.bound = cleanupDomAndEvents(c, inst.el, inst.bound)
	inst.el = nil
	inst.refs = nil
	inst.renderedNull = true
	inst.status = StatusUnmounted
}

// Update merges update into props and re-renders. update is a literal or
// an Updater. While unmounted the merge is stored and nothing renders.
func (c *Component) Update(update any) error {
	inst := c.inst
	prev := snapshot(inst.props)
	inst.props = Merge(inst.props, update)
	if !inst.mounted {
		return nil
	}
	inst.prevProps = prev
	return c.rerender(inst)
}

// SetState merges update into state and re-renders synchronously. Each
// call renders once; calls are never batched.
func (c *Component) SetState(update any) error {
	inst := c.inst
	inst.state = Merge(inst.state, update)
	if !inst.mounted {
		return nil
	}
	inst.prevProps = snapshot(inst.props)
	return c.rerender(inst)
}

func (c *Component) rerender(inst *instance) error {
	if inst.status == StatusUnmounting {
		return nil
	}
	inst.status = StatusUpdating
	err := c.renderCycle(inst)
	if c.inst == inst && inst.mounted {
		inst.status = StatusMounted
	}
	if err != nil {
		return err
	}
	if c.inst != inst || !inst.mounted {
		return nil
	}
	runHooks(c, PhaseUpdate, &inst.onUpdate, inst.prevProps, false)
	return nil
}

// Unmount empties the host, removes every listener and unregisters the
// component. It is a no-op when the component is not mounted.
func (c *Component) Unmount() {
	inst := c.inst
	if !inst.mounted || inst.status == StatusUnmounting {
		return
	}
	inst.status = StatusUnmounting
	runHooks(c, PhaseBeforeUnmount, &inst.onBeforeUnmount, struct{}{}, false)
	if c.inst != inst {
		return
	}

	c.lastRender = dom.Clone(inst.el)
	inst.bound = cleanupDomAndEvents(c, inst.el, inst.bound)
	inst.mounted = false
	inst.beforeMountDone = false
	inst.renderedNull = true
	inst.refs = nil
	c.rt.registry.Unregister(c)
	inst.status = StatusUnmounted
	inst.el = nil

	c.inst = c.newInstance()
	c.rt.metrics.unmounted()
	c.rt.logger.Debug("litecmp: unmounted",
		zap.String("component", c.name),
		zap.String("id", inst.id))

	runHooks(c, PhaseUnmount, &inst.onUnmount, struct{}{}, true)
}

// HTML renders markup without mounting, with props merged over the current
// props. No hooks run and nothing is written to the document.
func (c *Component) HTML(props ...any) (string, error) {
	inst := c.inst
	p := inst.props
	if len(props) > 0 && props[0] != nil {
		p = Merge(p, props[0])
	}
	return c.produce(p, inst.state, inst.refs)
}

// Templ wraps HTML as a templ.Component so the component can be embedded
// in templ pages or passed as slot content.
func (c *Component) Templ(props ...any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		markup, err := c.HTML(props...)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, markup)
		return err
	})
}

// produce runs the render function and resolves slots.
func (c *Component) produce(props, state any, refs map[string]*html.Node) (string, error) {
	markup, err := c.render(View{c: c, props: props, state: state, refs: refs})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRender, c.name, err)
	}
	if markup == "" {
		return "", nil
	}
	out, err := Outlet(markup, props)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRender, c.name, err)
	}
	return out, nil
}

// renderCycle renders, tears down the previous render's DOM and listeners,
// writes the new markup and rebinds events.
func (c *Component) renderCycle(inst *instance) error {
	inst.renders++
	gen := inst.renders

	markup, err := c.produce(inst.props, inst.state, inst.refs)
	if err != nil {
		return err
	}
	markup = runHooks(c, PhaseBeforeRender, &inst.onBeforeRender, markup, false)

	// A before-render hook may have re-rendered or unmounted the component.
	if c.inst != inst || inst.renders != gen || inst.el == nil {
		return nil
	}

	inst.bound = cleanupDomAndEvents(c, inst.el, inst.bound)
	if strings.TrimSpace(markup) == "" {
		inst.renderedNull = true
		inst.refs = nil
		return nil
	}

	if err := dom.SetInnerHTML(inst.el, markup); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRender, c.name, err)
	}
	inst.renderedNull = false
	inst.refs = collectRefs(inst.el)
	c.rt.metrics.rendered()

	bound, err := bindEvents(c, inst.el, c.opts.On)
	inst.bound = bound
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRender, c.name, err)
	}
	return nil
}

// collectRefs indexes descendants of host by their ref attribute.
func collectRefs(host *html.Node) map[string]*html.Node {
	var refs map[string]*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode {
				if name, ok := dom.Attr(child, "ref"); ok && name != "" {
					if refs == nil {
						refs = make(map[string]*html.Node)
					}
					refs[name] = child
				}
			}
			walk(child)
		}
	}
	walk(host)
	return refs
}
