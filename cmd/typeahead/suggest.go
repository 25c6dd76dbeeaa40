package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jonwraymond/typeahead/users"
)

func suggest(ctx context.Context, fs *pflag.FlagSet, _ io.Reader, stdout, stderr io.Writer) (err error) {
	query := strings.Join(fs.Args(), " ")
	if query == "" {
		return errUsage
	}

	a, err := newApp(ctx, fs, stderr)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(context.Background()); err == nil {
			err = cerr
		}
	}()

	list, err := a.svc.Suggest(ctx, query)
	if err != nil {
		return errors.New(users.UserMessage(err))
	}
	printSuggestions(stdout, list, false)
	return nil
}

func printSuggestions(w io.Writer, list []users.User, numbered bool) {
	for i, u := range list {
		if numbered {
			fmt.Fprintf(w, "%d. %s\n", i+1, u.Name)
			continue
		}
		fmt.Fprintln(w, u.Name)
	}
}
