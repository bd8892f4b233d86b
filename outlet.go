package litecmp

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

// DefaultSlot is the name the unnamed slot marker resolves under.
const DefaultSlot = "default"

// slotTag matches one opening, closing or self-closing slot tag.
var (
	slotTag  = regexp.MustCompile(`(?i)<(/?)slot\b([^>]*?)(/?)>`)
	slotName = regexp.MustCompile(`(?i)\bname\s*=\s*["']([^"']*)["']`)
)

// Outlet replaces slot markers in markup with content from props.
//
// For each marker the first present value wins:
//  1. props["children"][name] when children is a map (the unnamed marker
//     uses DefaultSlot)
//  2. for the unnamed marker, props["children"] itself when it is not a map
//  3. props["slots"][name]
//  4. the fallback written between the marker tags, with its own markers
//     resolved the same way
//  5. the empty string
//
// Markers nest: a marker's fallback runs to its matching closing tag.
// Unbalanced tags are left in place.
func Outlet(markup string, props any) (string, error) {
	if !slotTag.MatchString(markup) {
		return markup, nil
	}
	return fillSlots(markup, lookup(props, "children"), lookup(props, "slots"))
}

func fillSlots(markup string, children, slots any) (string, error) {
	var (
		sb    strings.Builder
		last  int
		depth int
		open  [2]int
		name  string
	)
	fill := func(start, end int, fallback string) error {
		sb.WriteString(markup[last:start])
		last = end
		content, err := resolveSlot(children, slots, name, fallback)
		if err != nil {
			return fmt.Errorf("litecmp: slot %q: %w", name, err)
		}
		sb.WriteString(content)
		return nil
	}

	for _, m := range slotTag.FindAllStringSubmatchIndex(markup, -1) {
		closing := m[3] > m[2]
		selfClosing := m[7] > m[6]
		switch {
		case depth == 0 && closing:
			// stray closing tag, kept as text
		case depth == 0 && selfClosing:
			name = tagName(markup[m[4]:m[5]])
			if err := fill(m[0], m[1], ""); err != nil {
				return "", err
			}
		case depth == 0:
			name = tagName(markup[m[4]:m[5]])
			open = [2]int{m[0], m[1]}
			depth = 1
		case closing:
			depth--
			if depth == 0 {
				if err := fill(open[0], m[1], markup[open[1]:m[0]]); err != nil {
					return "", err
				}
			}
		case !selfClosing:
			depth++
		}
	}
	sb.WriteString(markup[last:])
	return sb.String(), nil
}

func tagName(attrs string) string {
	if m := slotName.FindStringSubmatch(attrs); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func resolveSlot(children, slots any, name, fallback string) (string, error) {
	key := name
	if key == "" {
		key = DefaultSlot
	}

	if named, ok := children.(map[string]any); ok {
		if v, ok := named[key]; ok && v != nil {
			return slotContent(v)
		}
	} else if name == "" && children != nil {
		return slotContent(children)
	}

	if named, ok := slots.(map[string]any); ok {
		if v, ok := named[key]; ok && v != nil {
			return slotContent(v)
		}
	}

	if fallback == "" {
		return "", nil
	}
	return fillSlots(fallback, children, slots)
}

// htmlRenderer is satisfied by *Component.
type htmlRenderer interface {
	HTML(props ...any) (string, error)
}

// slotContent converts a slot value to markup.
func slotContent(v any) (string, error) {
	switch c := v.(type) {
	case string:
		return c, nil
	case []byte:
		return string(c), nil
	case templ.Component:
		var buf bytes.Buffer
		if err := c.Render(context.Background(), &buf); err != nil {
			return "", err
		}
		return buf.String(), nil
	case htmlRenderer:
		return c.HTML()
	case fmt.Stringer:
		return c.String(), nil
	default:
		return fmt.Sprint(c), nil
	}
}
