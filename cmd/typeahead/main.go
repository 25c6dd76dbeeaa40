// Command typeahead serves and queries user-name suggestions backed by a
// coalescing, expiring cache of the users listing.
//
// Usage:
//
//	typeahead serve [flags]
//	typeahead suggest [flags] <query>
//	typeahead interactive [flags]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type command struct {
	summary string
	run     func(ctx context.Context, fs *pflag.FlagSet, stdin io.Reader, stdout, stderr io.Writer) error
}

var commands = map[string]command{
	"serve":       {"run the HTTP server", serve},
	"suggest":     {"print suggestions for a query", suggest},
	"interactive": {"suggest as lines are typed on stdin; !N picks suggestion N", interactive},
}

var errUsage = errors.New("usage")

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "typeahead: unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}

	fs := newFlagSet(args[0], stderr)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	if err := cmd.run(ctx, fs, stdin, stdout, stderr); err != nil {
		if errors.Is(err, errUsage) {
			fs.Usage()
			return 2
		}
		fmt.Fprintf(stderr, "typeahead %s: %v\n", args[0], err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: typeahead <command> [flags]")
	fmt.Fprintln(w)
	for _, name := range []string{"serve", "suggest", "interactive"} {
		fmt.Fprintf(w, "  %-12s %s\n", name, commands[name].summary)
	}
}
