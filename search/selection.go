package search

import (
	"fmt"
	"sync"

	"github.com/jonwraymond/typeahead/users"
)

// Selection tracks the suggestions last shown and the one picked from
// them. The picked name becomes the next query text.
type Selection struct {
	mu       sync.Mutex
	shown    []users.User
	selected string
}

// Show replaces the displayed suggestions.
func (s *Selection) Show(list []users.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = append(s.shown[:0:0], list...)
}

// Shown returns the displayed suggestions.
func (s *Selection) Shown() []users.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]users.User(nil), s.shown...)
}

// Select records name as the chosen value and returns it.
func (s *Selection) Select(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = name
	return name
}

// Pick selects the n-th displayed suggestion, counting from 1.
func (s *Selection) Pick(n int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n < 1 || n > len(s.shown) {
		return "", fmt.Errorf("%w: %d of %d", ErrNoSuchSuggestion, n, len(s.shown))
	}
	s.selected = s.shown[n-1].Name
	return s.selected, nil
}

// Selected returns the last chosen value, or "".
func (s *Selection) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}
