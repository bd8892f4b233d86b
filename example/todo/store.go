package main

import (
	"fmt"
	"sync"
)

// Todo is one entry of the list.
type Todo struct {
	ID    string
	Title string
	Done  bool
}

// Store is an in-memory todo store.
type Store struct {
	mu     sync.RWMutex
	todos  []*Todo
	nextID int
}

// NewStore creates a store with sample data.
func NewStore() *Store {
	s := &Store{nextID: 1}
	s.Add("Buy groceries")
	s.Add("Review PR #123")
	s.Add("Write documentation")
	return s
}

// Add creates a todo and returns its ID.
func (s *Store) Add(title string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("todo-%d", s.nextID)
	s.nextID++
	s.todos = append(s.todos, &Todo{ID: id, Title: title})
	return id
}

// Toggle flips the done flag of a todo.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.todos {
		if t.ID == id {
			t.Done = !t.Done
			return true
		}
	}
	return false
}

// Delete removes a todo by ID.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.todos {
		if t.ID == id {
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			return true
		}
	}
	return false
}

// List returns copies of all todos in insertion order.
func (s *Store) List() []Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Todo, len(s.todos))
	for i, t := range s.todos {
		out[i] = *t
	}
	return out
}

// Remaining counts the todos not done.
func (s *Store) Remaining() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, t := range s.todos {
		if !t.Done {
			n++
		}
	}
	return n
}
