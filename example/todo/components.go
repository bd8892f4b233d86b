package main

import (
	"fmt"
	"html"
	"strings"

	"github.com/pthm/litecmp"
	"github.com/pthm/litecmp/lib/dom"
)

// newTodoList creates the list component. Handlers mutate the store and
// bump the "version" state entry to re-render.
func newTodoList(rt *litecmp.Runtime, store *Store, counter *litecmp.State) *litecmp.Component {
	refresh := func(c *litecmp.Component) error {
		counter.SetState(map[string]any{"remaining": store.Remaining()})
		return c.SetState(litecmp.Updater(func(cur any) any {
			return map[string]any{"version": cur.(map[string]any)["version"].(int) + 1}
		}))
	}

	return rt.Create(func(v litecmp.View) (string, error) {
		items := litecmp.RenderListWith(v.ListOptions(), store.List(), func(t Todo, _ int) string {
			class := "todo"
			if t.Done {
				class += " done"
			}
			return fmt.Sprintf(`<li class="%s"><span class="title">%s</span><button class="toggle">done</button><button class="delete">x</button></li>`,
				class, html.EscapeString(t.Title))
		})
		return `<form class="add"><input name="title" ref="title"><button>Add</button></form>` +
			`<ul class="todos">` + litecmp.JoinList(items) + `</ul><slot name="footer"></slot>`, nil
	}, litecmp.Options{
		Name:  "todo-list",
		State: map[string]any{"version": 0},
		On: map[string]litecmp.EventHandler{
			"submit form.add": func(c *litecmp.Component, e *litecmp.EventContext) error {
				title, _ := e.Event.Detail["title"].(string)
				if strings.TrimSpace(title) == "" {
					return nil
				}
				store.Add(strings.TrimSpace(title))
				return refresh(c)
			},
			"click .toggle": func(c *litecmp.Component, e *litecmp.EventContext) error {
				store.Toggle(itemKey(c, e))
				return refresh(c)
			},
			"click .delete": func(c *litecmp.Component, e *litecmp.EventContext) error {
				store.Delete(itemKey(c, e))
				return refresh(c)
			},
		},
	})
}

// newCounter creates the "remaining" badge, driven by a shared State.
func newCounter(rt *litecmp.Runtime) *litecmp.Component {
	return rt.Create(func(v litecmp.View) (string, error) {
		return fmt.Sprintf(`<strong class="remaining">%v left</strong>`, v.Prop("remaining")), nil
	}, litecmp.Options{Name: "remaining"})
}

// itemKey returns the key of the list item containing the match, read
// from the attribute the runtime stamps on list fragments.
func itemKey(c *litecmp.Component, e *litecmp.EventContext) string {
	attr := c.Runtime().Config().KeyAttr
	for n := e.Match; n != nil && n != e.El; n = n.Parent {
		if key, ok := dom.Attr(n, attr); ok {
			return key
		}
	}
	return ""
}
