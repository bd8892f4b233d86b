// Package litecmp is a small component runtime: it mounts components into
// an in-memory HTML document, re-renders them when props or state change,
// and routes DOM events to their handlers.
//
// # Core Concepts
//
// A component is a render function plus Options. Runtime.Create returns a
// *Component handle that can be mounted, updated and unmounted:
//
//	doc := dom.MustParse(`<html><body><div id="app"></div></body></html>`)
//	rt := litecmp.NewRuntime(doc)
//
//	counter := rt.Create(func(v litecmp.View) (string, error) {
//	    return fmt.Sprintf(`<button class="inc">Count: %v</button>`, v.Get("count")), nil
//	}, litecmp.Options{
//	    State: map[string]any{"count": 0},
//	    On: map[string]litecmp.EventHandler{
//	        "click .inc": func(c *litecmp.Component, e *litecmp.EventContext) error {
//	            return c.SetState(litecmp.Updater(func(cur any) any {
//	                return map[string]any{"count": cur.(map[string]any)["count"].(int) + 1}
//	            }))
//	        },
//	    },
//	})
//	err := counter.Mount("#app")
//
// Every render replaces the host's children. There is no diffing: the
// previous subtree and its listeners are removed before the new markup is
// written.
//
// # Props and State
//
// Update and SetState take either a literal or an Updater. Two maps are
// merged key by key; anything else replaces the old value. Calls are
// synchronous and never batched: each one renders once.
//
// # Events
//
// Keys of Options.On have the form "<type> <selector>". One listener per
// key is installed on the host element, and a handler runs when the closest
// ancestor of the event target matching the selector lies inside the host.
// Handler errors and panics are logged, never returned.
//
// # Lifecycle Hooks
//
// OnBeforeMount and OnMount run once per mount cycle. OnBeforeRender runs
// before every write and may rewrite the markup. OnUpdate runs after every
// re-render with the previous props. OnBeforeUnmount and OnUnmount bracket
// Unmount. A failing hook is logged and skipped; the remaining hooks and
// the surrounding operation continue.
//
// # Slots and Lists
//
// Render output may contain <slot> or <slot name="x"> markers, filled by
// Outlet from props["children"] and props["slots"]. RenderList stamps a
// key attribute on each fragment of a list.
//
// # Observability
//
// Failures are logged through zap (see SetLogger and WithLogger).
// NewMetrics exposes prometheus collectors for mounts, renders, hook errors
// and bound listeners.
//
// # Concurrency
//
// A Runtime is single threaded. The Registry and State types are safe for
// concurrent use; adapters/chi serialises HTTP access to a runtime.
package litecmp
