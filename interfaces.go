package litecmp

import "golang.org/x/net/html"

// Handle is the capability set a component definition exposes to
// application code. *Component implements it; code that only drives
// components should accept a Handle.
type Handle interface {
	Mount(target string, props ...any) error
	Update(update any) error
	SetState(update any) error
	Unmount()
	HTML(props ...any) (string, error)
	Props() any
	State() any
	El() *html.Node
}

var _ Handle = (*Component)(nil)

// View is the read-only input of a RenderFunc.
//
// Props and state are the values the render must reflect. Refs come from
// the previous render, since the current one has not been written yet.
//
//	func counter(v litecmp.View) (string, error) {
//	    return fmt.Sprintf(`<button class="inc">Count: %v</button>`, v.Get("count")), nil
//	}
type View struct {
	c     *Component
	props any
	state any
	refs  map[string]*html.Node
}

// Props returns the props for this render.
func (v View) Props() any { return v.props }

// State returns the state for this render.
func (v View) State() any { return v.state }

// Prop reads one prop when props are a map.
func (v View) Prop(key string) any { return lookup(v.props, key) }

// Get reads one state entry when state is a map.
func (v View) Get(key string) any { return lookup(v.state, key) }

// SetState updates the component's state and re-renders synchronously,
// like Component.SetState.
func (v View) SetState(update any) error { return v.c.SetState(update) }

// Refs returns the ref-tagged elements of the previous render.
func (v View) Refs() map[string]*html.Node { return v.refs }

// Ref returns one ref-tagged element, or nil.
func (v View) Ref(name string) *html.Node { return v.refs[name] }

// Component returns the component being rendered.
func (v View) Component() *Component { return v.c }

// ListOptions returns list settings matching the runtime configuration.
func (v View) ListOptions() ListOptions {
	return ListOptions{KeyAttr: v.c.rt.cfg.KeyAttr}
}
