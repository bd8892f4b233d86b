package litecmp

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewTestHost(t *testing.T) {
	host := NewTestHost(`<div id="app"><p class="msg">hi</p></div>`)

	if host.Query("#app") == nil {
		t.Fatal("Query(#app) = nil")
	}
	if got := host.Text("#app .msg"); got != "hi" {
		t.Errorf("Text() = %q, want %q", got, "hi")
	}
	if got := host.InnerHTML("#app"); got != `<p class="msg">hi</p>` {
		t.Errorf("InnerHTML() = %q", got)
	}
	if host.Query("#missing") != nil || host.InnerHTML("#missing") != "" {
		t.Error("missing selector should yield nil and empty markup")
	}
	if host.Runtime.Registry() != host.Registry {
		t.Error("runtime should use the host registry")
	}
}

func TestTestHostDispatchMissingTarget(t *testing.T) {
	host := NewTestHost(`<div id="app"></div>`)

	err := host.Click("#nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Click() error = %v, want ErrNotFound", err)
	}
}

func TestTestHostDispatchDetail(t *testing.T) {
	host := NewTestHost(`<div id="app"></div>`)

	var got any
	c := host.Runtime.Create(func(View) (string, error) {
		return `<input class="q">`, nil
	}, Options{
		On: map[string]EventHandler{
			"input .q": func(c *Component, e *EventContext) error {
				got = e.Event.Detail["value"]
				return c.SetState(map[string]any{"q": got})
			},
		},
	})
	_ = c.Mount("#app")

	if err := host.Dispatch("#app .q", "input", map[string]any{"value": "go"}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if got != "go" {
		t.Errorf("detail value = %v, want go", got)
	}
	if c.State().(map[string]any)["q"] != "go" {
		t.Errorf("state = %v", c.State())
	}
	if host.ListenerCount(c, "input") != 1 || host.ListenerCount(c, "click") != 0 {
		t.Error("unexpected listener counts")
	}

	c.Unmount()
	if host.ListenerCount(c, "input") != 0 {
		t.Error("ListenerCount on unmounted component should be 0")
	}
}

func TestTestHostCapturesLogs(t *testing.T) {
	host := NewTestHost(`<div id="app"></div>`)
	c := host.Runtime.Create(counterRender, counterOptions())
	_ = c.Mount("#app")

	debug := host.Logs.FilterLevelExact(zapcore.DebugLevel).FilterMessage("litecmp: mounted").All()
	if len(debug) != 1 {
		t.Fatalf("mounted log entries = %d, want 1", len(debug))
	}
	if debug[0].ContextMap()["id"] != c.ID() {
		t.Errorf("logged id = %v, want %s", debug[0].ContextMap()["id"], c.ID())
	}
	if len(host.ErrorLogs()) != 0 {
		t.Errorf("unexpected error logs: %v", host.ErrorLogs())
	}
}

func TestTestRender(t *testing.T) {
	render := func(v View) (string, error) {
		return `<article><h2>` + v.Prop("title").(string) + `</h2><slot>empty</slot></article>`, nil
	}

	tests := []struct {
		name  string
		props any
		want  string
	}{
		{
			name:  "fallback",
			props: map[string]any{"title": "A"},
			want:  `<article><h2>A</h2>empty</article>`,
		},
		{
			name:  "children",
			props: map[string]any{"title": "B", "children": "<p>body</p>"},
			want:  `<article><h2>B</h2><p>body</p></article>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TestRender(render, Options{}, tt.props)
			if err != nil {
				t.Fatalf("TestRender() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("TestRender() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTestRenderError(t *testing.T) {
	_, err := TestRender(func(View) (string, error) {
		return "", errors.New("no data")
	}, Options{Name: "broken"}, nil)

	if !errors.Is(err, ErrRender) {
		t.Fatalf("TestRender() error = %v, want ErrRender", err)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error %q should name the component", err)
	}
}
