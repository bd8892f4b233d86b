package litecmp

import "sync"

// State is a standalone observable value for sharing data between
// components. Subscribers typically call Component.SetState or Update.
//
//	theme := litecmp.NewState(map[string]any{"mode": "light"})
//	stop := theme.Subscribe(func(v any) { header.Update(map[string]any{"theme": v}) })
//	defer stop()
type State struct {
	mu     sync.Mutex
	value  any
	nextID int
	subs   []subscriber
}

type subscriber struct {
	id int
	fn func(any)
}

// NewState creates a container holding initial.
func NewState(initial any) *State {
	return &State{value: initial}
}

// Get returns the current value.
func (s *State) Get() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// SetState merges next into the value with the same rules as Merge and
// notifies subscribers in subscription order.
func (s *State) SetState(next any) {
	s.mu.Lock()
	s.value = Merge(s.value, next)
	value := s.value
	subs := append([]subscriber(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(value)
	}
}

// Subscribe calls fn with the current value immediately and after every
// SetState. The returned function unsubscribes; calling it twice is safe.
func (s *State) Subscribe(fn func(any)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	value := s.value
	s.mu.Unlock()

	fn(value)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}
