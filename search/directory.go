package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/armon/go-radix"

	"github.com/jonwraymond/typeahead/users"
)

// Mode selects how a query matches user names.
type Mode string

const (
	// ModeContains matches names containing the query anywhere.
	ModeContains Mode = "contains"

	// ModePrefix matches names where the whole name or one of its words
	// starts with the query.
	ModePrefix Mode = "prefix"
)

// ParseMode parses s case-insensitively. "" is ModeContains.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeContains:
		return ModeContains, nil
	case ModePrefix:
		return ModePrefix, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Directory is an immutable, indexed snapshot of a users listing. It is
// built once per fetch and shared by every reader of the cached entry.
type Directory struct {
	users []users.User
	lower []string

	// index maps a lower-cased name, and each word of it, to the positions
	// of the users carrying it.
	index *radix.Tree
}

// NewDirectory indexes list. The slice is copied.
func NewDirectory(list []users.User) *Directory {
	d := &Directory{
		users: append([]users.User(nil), list...),
		lower: make([]string, len(list)),
		index: radix.New(),
	}
	for i, u := range d.users {
		name := strings.ToLower(u.Name)
		d.lower[i] = name
		d.add(name, i)
		for _, word := range strings.Fields(name) {
			if word != name {
				d.add(word, i)
			}
		}
	}
	return d
}

func (d *Directory) add(key string, pos int) {
	if key == "" {
		return
	}
	var positions []int
	if v, ok := d.index.Get(key); ok {
		positions = v.([]int)
	}
	if n := len(positions); n > 0 && positions[n-1] == pos {
		return
	}
	d.index.Insert(key, append(positions, pos))
}

// Len returns the number of users.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.users)
}

// Users returns a copy of the listing in upstream order.
func (d *Directory) Users() []users.User {
	if d == nil {
		return nil
	}
	return append([]users.User(nil), d.users...)
}

// Match returns the users whose names match query under mode, in upstream
// order, at most limit of them when limit > 0. Matching ignores case.
func (d *Directory) Match(query string, mode Mode, limit int) []users.User {
	if d == nil {
		return []users.User{}
	}
	q := strings.ToLower(query)
	if mode == ModePrefix {
		return d.prefix(strings.TrimSpace(q), limit)
	}
	return d.contains(q, limit)
}

func (d *Directory) contains(q string, limit int) []users.User {
	out := []users.User{}
	for i, name := range d.lower {
		if strings.Contains(name, q) {
			out = append(out, d.users[i])
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}

func (d *Directory) prefix(q string, limit int) []users.User {
	seen := make(map[int]bool)
	d.index.WalkPrefix(q, func(_ string, v interface{}) bool {
		for _, pos := range v.([]int) {
			seen[pos] = true
		}
		return false
	})

	positions := make([]int, 0, len(seen))
	for pos := range seen {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	if limit > 0 && len(positions) > limit {
		positions = positions[:limit]
	}

	out := make([]users.User, len(positions))
	for i, pos := range positions {
		out[i] = d.users[pos]
	}
	return out
}
