package litecmp

import (
	"crypto/rand"
	"fmt"
	"math"
	"reflect"

	"github.com/pthm/litecmp/lib/encoding"
)

// Encoder is an alias for encoding.Encoder for convenience.
type Encoder = encoding.Encoder

// Snapshotter and Restorer let typed props or state control their
// snapshot form. Values that are not maps should implement both, with
// RestoreMap on a pointer receiver.
type (
	Snapshotter = encoding.Snapshotter
	Restorer    = encoding.Restorer
)

// NewEncoder creates a snapshot encoder with the given key.
func NewEncoder(key []byte) (*Encoder, error) {
	return encoding.NewEncoder(key)
}

type snapshotPayload struct {
	Props any `msgpack:"props"`
	State any `msgpack:"state"`
}

// Snapshot encodes the current props and state into a token. Tokens are
// signed, or encrypted when sensitive is set.
func (c *Component) Snapshot(sensitive bool) (string, error) {
	token, err := c.rt.encoder.Encode(snapshotPayload{
		Props: snapshotValue(c.inst.props),
		State: snapshotValue(c.inst.state),
	}, sensitive)
	if err != nil {
		return "", fmt.Errorf("litecmp: snapshot %s: %w", c.name, err)
	}
	return token, nil
}

// Restore replaces props and state with a snapshot taken by Snapshot and
// re-renders when mounted.
//
// Decoded values are shaped after the current ones: a current Restorer is
// rebuilt in place, and numbers take the type of the value currently under
// the same key. Numbers with nothing to match become int when they fit,
// float64 otherwise.
func (c *Component) Restore(token string, sensitive bool) error {
	var p snapshotPayload
	if err := c.rt.encoder.Decode(token, sensitive, &p); err != nil {
		return wrapSnapshotError(err)
	}

	inst := c.inst
	props, err := restoreValue(inst.props, p.Props)
	if err != nil {
		return fmt.Errorf("%w: props: %w", ErrInvalidSnapshot, err)
	}
	state, err := restoreValue(inst.state, p.State)
	if err != nil {
		return fmt.Errorf("%w: state: %w", ErrInvalidSnapshot, err)
	}

	prev := snapshot(inst.props)
	inst.props = props
	inst.state = state
	if !inst.mounted {
		return nil
	}
	inst.prevProps = prev
	return c.rerender(inst)
}

func snapshotValue(v any) any {
	if s, ok := v.(Snapshotter); ok {
		return s.SnapshotMap()
	}
	return v
}

func restoreValue(current, decoded any) (any, error) {
	if r, ok := current.(Restorer); ok {
		if m, ok := decoded.(map[string]any); ok {
			if err := r.RestoreMap(conformMap(m, nil)); err != nil {
				return nil, err
			}
			return current, nil
		}
	}
	return conform(decoded, current), nil
}

// conform converts the numbers in decoded to the types found at the same
// place in like.
func conform(decoded, like any) any {
	switch d := decoded.(type) {
	case map[string]any:
		l, _ := like.(map[string]any)
		return conformMap(d, l)
	case []any:
		l, _ := like.([]any)
		out := make([]any, len(d))
		for i, v := range d {
			var li any
			if i < len(l) {
				li = l[i]
			}
			out[i] = conform(v, li)
		}
		return out
	case int64, uint64, float64:
		return conformNumber(d, like)
	default:
		return decoded
	}
}

func conformMap(m, like map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = conform(v, like[k])
	}
	return out
}

func conformNumber(n, like any) any {
	v := reflect.ValueOf(n)
	if like != nil {
		t := reflect.TypeOf(like)
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return v.Convert(t).Interface()
		}
	}
	switch x := n.(type) {
	case int64:
		if x >= math.MinInt && x <= math.MaxInt {
			return int(x)
		}
	case uint64:
		if x <= math.MaxInt {
			return int(x)
		}
	}
	return n
}

func randomKey() []byte {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(fmt.Sprintf("litecmp: failed to generate snapshot key: %v", err))
	}
	return key
}
