// Package dom is the in-memory host environment components are mounted
// into.
//
// A Document wraps a parsed golang.org/x/net/html tree and keeps a listener
// table per node. Events are dispatched programmatically: the capture pass
// walks from the root down to the target, the bubble pass walks back up.
// Selectors are compiled with cascadia.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrInvalidSelector is returned when a CSS selector fails to compile.
var ErrInvalidSelector = errors.New("dom: invalid selector")

// Event is a synthetic DOM event.
type Event struct {
	Type          string
	Target        *html.Node
	CurrentTarget *html.Node
	Detail        map[string]any

	stopped bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string, detail map[string]any) *Event {
	return &Event{Type: typ, Detail: detail}
}

// StopPropagation prevents the event from reaching further nodes.
// Remaining listeners on the current node still run.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool {
	return e.stopped
}

// Listener is a registered event callback. Listeners are compared by
// pointer, so the same *Listener must be passed to RemoveEventListener.
type Listener struct {
	Capture bool

	fn      func(*Event)
	removed bool
}

// NewListener wraps fn as a bubble-phase listener.
func NewListener(fn func(*Event)) *Listener {
	return &Listener{fn: fn}
}

// NewCaptureListener wraps fn as a capture-phase listener.
func NewCaptureListener(fn func(*Event)) *Listener {
	return &Listener{fn: fn, Capture: true}
}

// Document is a parsed HTML tree plus its listener table.
type Document struct {
	root      *html.Node
	listeners map[*html.Node]map[string][]*Listener
}

// Parse parses a full HTML document.
func Parse(markup string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return &Document{
		root:      root,
		listeners: make(map[*html.Node]map[string][]*Listener),
	}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(markup string) *Document {
	doc, err := Parse(markup)
	if err != nil {
		panic(err)
	}
	return doc
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Body returns the <body> element.
func (d *Document) Body() *html.Node {
	var find func(*html.Node) *html.Node
	find = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := find(c); found != nil {
				return found
			}
		}
		return nil
	}
	return find(d.root)
}

// QueryAll returns every element matching sel, in document order.
func (d *Document) QueryAll(sel string) ([]*html.Node, error) {
	s, err := Compile(sel)
	if err != nil {
		return nil, err
	}
	return s.MatchAll(d.root), nil
}

// Query returns the first element matching sel, or nil.
func (d *Document) Query(sel string) (*html.Node, error) {
	s, err := Compile(sel)
	if err != nil {
		return nil, err
	}
	return s.MatchFirst(d.root), nil
}

// AddEventListener registers l for typ on n.
func (d *Document) AddEventListener(n *html.Node, typ string, l *Listener) {
	byType, ok := d.listeners[n]
	if !ok {
		byType = make(map[string][]*Listener)
		d.listeners[n] = byType
	}
	l.removed = false
	byType[typ] = append(byType[typ], l)
}

// RemoveEventListener unregisters l for typ on n. It reports whether the
// listener was found. A listener removed during a dispatch does not run.
func (d *Document) RemoveEventListener(n *html.Node, typ string, l *Listener) bool {
	byType := d.listeners[n]
	list := byType[typ]
	for i, existing := range list {
		if existing != l {
			continue
		}
		l.removed = true
		list = append(list[:i:i], list[i+1:]...)
		if len(list) == 0 {
			delete(byType, typ)
		} else {
			byType[typ] = list
		}
		if len(byType) == 0 {
			delete(d.listeners, n)
		}
		return true
	}
	return false
}

// ListenerCount returns the number of listeners for typ on n.
func (d *Document) ListenerCount(n *html.Node, typ string) int {
	return len(d.listeners[n][typ])
}

// TotalListeners returns the number of listeners in the whole document.
func (d *Document) TotalListeners() int {
	total := 0
	for _, byType := range d.listeners {
		for _, list := range byType {
			total += len(list)
		}
	}
	return total
}

// Dispatch fires ev at target. The propagation path is fixed before the
// first listener runs, so listeners may rewrite the tree freely.
func (d *Document) Dispatch(target *html.Node, ev *Event) {
	ev.Target = target

	var path []*html.Node
	for n := target; n != nil; n = n.Parent {
		path = append(path, n)
	}

	for i := len(path) - 1; i >= 0; i-- {
		d.invoke(path[i], ev, true)
		if ev.stopped {
			return
		}
	}
	for _, n := range path {
		d.invoke(n, ev, false)
		if ev.stopped {
			return
		}
	}
}

func (d *Document) invoke(n *html.Node, ev *Event, capture bool) {
	list := d.listeners[n][ev.Type]
	if len(list) == 0 {
		return
	}
	snapshot := append([]*Listener(nil), list...)
	for _, l := range snapshot {
		if l.removed || l.Capture != capture {
			continue
		}
		ev.CurrentTarget = n
		l.fn(ev)
	}
}

// Compile compiles a CSS selector.
func Compile(sel string) (cascadia.Selector, error) {
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, sel, err)
	}
	return s, nil
}

// Closest returns the nearest ancestor-or-self of n matching sel, without
// walking past boundary. It returns nil if n is not inside boundary.
func Closest(n *html.Node, sel cascadia.Selector, boundary *html.Node) *html.Node {
	if !Contains(boundary, n) {
		return nil
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && sel.Match(cur) {
			return cur
		}
		if cur == boundary {
			break
		}
	}
	return nil
}

// Contains reports whether n is ancestor itself or lies beneath it.
func Contains(ancestor, n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// SetInnerHTML replaces the children of n with the parsed markup.
func SetInnerHTML(n *html.Node, markup string) error {
	if n == nil || n.Type != html.ElementNode {
		return errors.New("dom: SetInnerHTML on non-element node")
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), n)
	if err != nil {
		return fmt.Errorf("dom: parse fragment: %w", err)
	}
	ClearChildren(n)
	for _, c := range nodes {
		if c.Parent != nil {
			c.Parent.RemoveChild(c)
		}
		n.AppendChild(c)
	}
	return nil
}

// ClearChildren detaches every child of n.
func ClearChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// OuterHTML serializes n itself.
func OuterHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}

// Text returns the concatenated text content of n.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// Clone deep-copies n into a detached tree.
func Clone(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	cp := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		cp.AppendChild(Clone(c))
	}
	return cp
}

// Attr returns the value of the named attribute.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or adds an attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
