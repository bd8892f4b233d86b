package litecmp

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/a-h/templ"
)

type label string

func (l label) String() string { return "<i>" + string(l) + "</i>" }

func TestOutlet(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		props  any
		want   string
	}{
		{
			name:   "no markers",
			markup: `<p>plain</p>`,
			props:  map[string]any{"children": "ignored"},
			want:   `<p>plain</p>`,
		},
		{
			name:   "children for unnamed marker",
			markup: `<div><slot/></div>`,
			props:  map[string]any{"children": "<b>kid</b>"},
			want:   `<div><b>kid</b></div>`,
		},
		{
			name:   "children map beats slots",
			markup: `<slot name="head"></slot>`,
			props: map[string]any{
				"children": map[string]any{"head": "from children"},
				"slots":    map[string]any{"head": "from slots"},
			},
			want: `from children`,
		},
		{
			name:   "children map default entry",
			markup: `<slot>fb</slot>`,
			props:  map[string]any{"children": map[string]any{"default": "dflt"}},
			want:   `dflt`,
		},
		{
			name:   "bare children do not fill named markers",
			markup: `<slot name="side">fallback</slot>`,
			props:  map[string]any{"children": "kid"},
			want:   `fallback`,
		},
		{
			name:   "slots map",
			markup: `<header><slot name='title'>Untitled</slot></header>`,
			props:  map[string]any{"slots": map[string]any{"title": "Home"}},
			want:   `<header>Home</header>`,
		},
		{
			name:   "fallback",
			markup: `<footer><slot name="foot"><small>none</small></slot></footer>`,
			props:  nil,
			want:   `<footer><small>none</small></footer>`,
		},
		{
			name:   "empty without fallback",
			markup: `a<slot name="x" />b<SLOT></SLOT>c`,
			props:  map[string]any{},
			want:   `abc`,
		},
		{
			name:   "nil entries fall through",
			markup: `<slot name="x">fb</slot>`,
			props:  map[string]any{"slots": map[string]any{"x": nil}},
			want:   `fb`,
		},
		{
			name:   "stringer and bytes",
			markup: `<slot name="a"/><slot name="b"/>`,
			props:  map[string]any{"slots": map[string]any{"a": label("x"), "b": []byte("<u>y</u>")}},
			want:   `<i>x</i><u>y</u>`,
		},
		{
			name:   "multiline fallback",
			markup: "<slot>\n  <p>line</p>\n</slot>",
			props:  nil,
			want:   "\n  <p>line</p>\n",
		},
		{
			name:   "nested fallback",
			markup: `<div><slot name="a"><p><slot name="b">inner</slot></p></slot></div>`,
			props:  nil,
			want:   `<div><p>inner</p></div>`,
		},
		{
			name:   "nested marker filled inside fallback",
			markup: `<div><slot name="a"><p><slot name="b">inner</slot></p></slot></div>`,
			props:  map[string]any{"slots": map[string]any{"b": "B"}},
			want:   `<div><p>B</p></div>`,
		},
		{
			name:   "outer marker replaces nested fallback",
			markup: `<slot name="a"><slot name="b">inner</slot>tail</slot>!`,
			props:  map[string]any{"slots": map[string]any{"a": "A", "b": "B"}},
			want:   `A!`,
		},
		{
			name:   "unclosed marker kept",
			markup: `x<slot name="a">y`,
			props:  nil,
			want:   `x<slot name="a">y`,
		},
		{
			name:   "stray closing tag kept",
			markup: `</slot><slot/>`,
			props:  map[string]any{"children": "k"},
			want:   `</slot>k`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Outlet(tt.markup, tt.props)
			if err != nil {
				t.Fatalf("Outlet() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Outlet() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutletTemplError(t *testing.T) {
	failing := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return errors.New("template broke")
	})

	_, err := Outlet(`<slot/>`, map[string]any{"children": failing})
	if err == nil {
		t.Fatal("Outlet() should return the templ error")
	}
}

func TestOutletRenderErrorReachesMount(t *testing.T) {
	host := NewTestHost(`<div id="app"></div>`)
	failing := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return errors.New("template broke")
	})

	c := host.Runtime.Create(func(View) (string, error) {
		return `<div><slot/></div>`, nil
	}, Options{})

	err := c.Mount("#app", map[string]any{"children": failing})
	if !errors.Is(err, ErrRender) {
		t.Errorf("Mount() error = %v, want ErrRender", err)
	}
}
