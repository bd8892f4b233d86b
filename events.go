package litecmp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/pthm/litecmp/lib/dom"
)

// EventHandler handles a delegated event. Returned errors and panics are
// logged and never reach the code that dispatched the event.
type EventHandler func(c *Component, e *EventContext) error

// EventContext is passed to every EventHandler.
type EventContext struct {
	// Event is the originating DOM event.
	Event *dom.Event
	// El is the component's host element.
	El *html.Node
	// Match is the element that matched the handler's selector, or the
	// host when the key has no selector.
	Match *html.Node
}

// Attr reads an attribute from the matched element.
func (e *EventContext) Attr(key string) string {
	v, _ := dom.Attr(e.Match, key)
	return v
}

// BoundEvent records one listener installed by a render.
type BoundEvent struct {
	Node     *html.Node
	Type     string
	Listener *dom.Listener
}

// parseEventKey splits "<type> <selector>". The selector may be empty.
func parseEventKey(key string) (typ, selector string) {
	key = strings.TrimSpace(key)
	typ, selector, _ = strings.Cut(key, " ")
	return typ, strings.TrimSpace(selector)
}

// bindEvents installs one delegated listener on host per key in on, in
// sorted key order, and returns what it bound.
func bindEvents(c *Component, host *html.Node, on map[string]EventHandler) ([]BoundEvent, error) {
	if len(on) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(on))
	for k := range on {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bound := make([]BoundEvent, 0, len(keys))
	for _, key := range keys {
		handler := on[key]
		if handler == nil {
			continue
		}
		typ, selector := parseEventKey(key)
		if typ == "" {
			return bound, fmt.Errorf("litecmp: empty event type in key %q", key)
		}

		var sel cascadia.Selector
		if selector != "" {
			s, err := dom.Compile(selector)
			if err != nil {
				return bound, err
			}
			sel = s
		}

		l := dom.NewListener(func(ev *dom.Event) {
			match := host
			if sel != nil {
				match = dom.Closest(ev.Target, sel, host)
				if match == nil {
					return
				}
			}
			c.handleEvent(key, handler, &EventContext{Event: ev, El: host, Match: match})
		})
		c.rt.doc.AddEventListener(host, typ, l)
		bound = append(bound, BoundEvent{Node: host, Type: typ, Listener: l})
		c.rt.metrics.listenersChanged(1)
	}
	return bound, nil
}

// cleanupDomAndEvents clears host and removes every listener in bound.
// It always returns an empty slice.
func cleanupDomAndEvents(c *Component, host *html.Node, bound []BoundEvent) []BoundEvent {
	removed := 0
	for _, b := range bound {
		if c.rt.doc.RemoveEventListener(b.Node, b.Type, b.Listener) {
			removed++
		}
	}
	c.rt.metrics.listenersChanged(-removed)
	if host != nil {
		unmountNested(c, host)
		dom.ClearChildren(host)
	}
	return bound[:0:0]
}

// unmountNested unmounts the components mounted on elements inside host,
// deepest first, so their listeners and registry entries go with the
// markup that is about to be replaced.
func unmountNested(c *Component, host *html.Node) {
	type nested struct {
		c     *Component
		depth int
	}
	var found []nested
	for _, other := range c.rt.registry.Components() {
		el := other.inst.el
		if other == c || el == nil || el == host || !dom.Contains(host, el) {
			continue
		}
		depth := 0
		for n := el; n != host; n = n.Parent {
			depth++
		}
		found = append(found, nested{other, depth})
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].depth > found[j].depth })
	for _, n := range found {
		if n.c.Mounted() {
			n.c.Unmount()
		}
	}
}

func (c *Component) handleEvent(key string, handler EventHandler, ec *EventContext) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return handler(c, ec)
	}()
	if err != nil {
		c.rt.logger.Error("litecmp: event handler failed",
			zap.String("component", c.name),
			zap.String("id", c.ID()),
			zap.String("event", key),
			zap.Error(err))
		c.rt.metrics.hookFailed(PhaseEvent)
	}
}
