package litecmp

import (
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strings"
)

// KeyFunc extracts a stable identity key from a list item.
type KeyFunc[T any] func(item T) string

// ListOptions configures RenderListWith.
type ListOptions struct {
	// KeyAttr is the attribute stamped on each fragment's root tag.
	KeyAttr string
}

var rootTag = regexp.MustCompile(`^\s*<[A-Za-z][A-Za-z0-9:_-]*`)

// RenderList renders one fragment per item and stamps each fragment's root
// tag with data-key. Without a key function the key is the item's "id" or
// "key" entry (maps), its ID or Key field (structs), or the item itself.
//
// Keys are for targeting ("the button with this key"); every render still
// replaces the whole list.
func RenderList[T any](items []T, render func(item T, index int) string, key ...KeyFunc[T]) []string {
	return RenderListWith(ListOptions{}, items, render, key...)
}

// RenderListWith is RenderList with an explicit key attribute.
func RenderListWith[T any](opts ListOptions, items []T, render func(item T, index int) string, key ...KeyFunc[T]) []string {
	attr := opts.KeyAttr
	if attr == "" {
		attr = DefaultKeyAttr
	}
	var keyFn KeyFunc[T]
	if len(key) > 0 && key[0] != nil {
		keyFn = key[0]
	} else {
		keyFn = func(item T) string { return defaultKey(item) }
	}

	out := make([]string, len(items))
	for i, item := range items {
		out[i] = stampKey(render(item, i), attr, keyFn(item))
	}
	return out
}

// JoinList concatenates rendered fragments.
func JoinList(fragments []string) string {
	return strings.Join(fragments, "")
}

// stampKey inserts attr="key" after the root tag name. Fragments that do
// not start with a tag are returned unchanged.
func stampKey(fragment, attr, key string) string {
	loc := rootTag.FindStringIndex(fragment)
	if loc == nil {
		return fragment
	}
	return fragment[:loc[1]] + " " + attr + `="` + html.EscapeString(key) + `"` + fragment[loc[1]:]
}

func defaultKey(item any) string {
	if m, ok := item.(map[string]any); ok {
		for _, k := range []string{"id", "key"} {
			if v, ok := m[k]; ok && v != nil {
				return fmt.Sprint(v)
			}
		}
		return fmt.Sprint(item)
	}

	v := reflect.ValueOf(item)
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() == reflect.Struct {
		for _, name := range []string{"ID", "Id", "Key"} {
			f := v.FieldByName(name)
			if f.IsValid() && f.CanInterface() {
				return fmt.Sprint(f.Interface())
			}
		}
	}
	return fmt.Sprint(item)
}
