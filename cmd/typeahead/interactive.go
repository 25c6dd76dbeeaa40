package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/pflag"

	"github.com/jonwraymond/typeahead/search"
	"github.com/jonwraymond/typeahead/users"
)

// session is one interactive run. Each stdin line is the current input
// text; lines are debounced and the latest one is searched.
type session struct {
	svc *search.Service
	sel search.Selection
	out io.Writer

	mu      sync.Mutex // guards out, pending and closed
	pending bool
	closed  bool
	wg      sync.WaitGroup
}

func interactive(ctx context.Context, fs *pflag.FlagSet, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	a, err := newApp(ctx, fs, stderr)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(context.Background()); err == nil {
			err = cerr
		}
	}()

	s := &session{svc: a.svc, out: stdout}
	d := search.NewDebouncer(a.cfg.Search.Debounce, func(text string) { s.search(ctx, text) })

	lines := readLines(ctx, stdin)

	var last string
	for {
		select {
		case <-ctx.Done():
			d.Stop()
			s.mu.Lock()
			s.closed = true
			s.mu.Unlock()
			s.wg.Wait()
			return nil
		case line, ok := <-lines:
			if !ok {
				d.Stop()
				s.flush(ctx, last)
				s.wg.Wait()
				return nil
			}
			if n, isPick := parsePick(line); isPick {
				name, err := s.sel.Pick(n)
				if err != nil {
					s.printf("%v\n", err)
					continue
				}
				s.printf("selected: %s\n", name)
				line = name
			}
			last = line
			s.markPending()
			d.Push(line)
		}
	}
}

// parsePick recognizes "!N".
func parsePick(line string) (int, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "!")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (s *session) markPending() {
	s.mu.Lock()
	s.pending = true
	s.mu.Unlock()
}

// flush closes the session to debounced deliveries and searches text now
// if the debouncer still owed it.
func (s *session) flush(ctx context.Context, text string) {
	s.mu.Lock()
	s.closed = true
	owed := s.pending
	if owed {
		s.pending = false
		s.wg.Add(1)
	}
	s.mu.Unlock()

	if owed {
		s.suggest(ctx, text)
	}
}

// search runs a debounced delivery.
func (s *session) search(ctx context.Context, text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending = false
	s.wg.Add(1)
	s.mu.Unlock()

	s.suggest(ctx, text)
}

// suggest prints the suggestions for text. The caller has already added
// to wg.
func (s *session) suggest(ctx context.Context, text string) {
	s.svc.SuggestAsync(ctx, text, func(list []users.User, err error) {
		defer s.wg.Done()

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			fmt.Fprintf(s.out, "%q: %s\n", text, users.UserMessage(err))
			return
		}
		s.sel.Show(list)
		fmt.Fprintf(s.out, "%q: %d suggestion(s)\n", text, len(list))
		printSuggestions(s.out, list, true)
	})
}

func (s *session) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

// readLines scans r line by line onto the returned channel, which is closed
// at end of input or once ctx is done. A Read already blocked on r is not
// interrupted, but no line is sent after ctx is done.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
