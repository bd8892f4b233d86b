package litecmp

// Updater computes a partial update from the current value. It is accepted
// wherever Update and SetState take a literal.
type Updater func(current any) any

// Merge applies update to current and returns the result.
//
// An Updater (or plain func(any) any) is called with current and its result
// is merged in its place. When both sides are map[string]any the keys are
// unioned into a new map and update wins; in every other case update
// replaces current. current is never mutated.
func Merge(current, update any) any {
	switch fn := update.(type) {
	case Updater:
		update = fn(current)
	case func(any) any:
		update = fn(current)
	}

	cur, curOK := current.(map[string]any)
	next, nextOK := update.(map[string]any)
	if !curOK || !nextOK {
		return update
	}

	merged := make(map[string]any, len(cur)+len(next))
	for k, v := range cur {
		merged[k] = v
	}
	for k, v := range next {
		merged[k] = v
	}
	return merged
}

// snapshot returns a shallow copy of v so later merges cannot alter it.
func snapshot(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	cp := make(map[string]any, len(m))
	for k, val := range m {
		cp[k] = val
	}
	return cp
}

// lookup reads key from v when v is a map[string]any.
func lookup(v any, key string) any {
	if m, ok := v.(map[string]any); ok {
		return m[key]
	}
	return nil
}
