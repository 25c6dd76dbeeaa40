package main

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/jonwraymond/typeahead/config"
)

func newFlagSet(name string, stderr io.Writer) *pflag.FlagSet {
	fs := config.Flags("typeahead " + name)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: typeahead %s [flags]", name)
		if name == "suggest" {
			fmt.Fprint(stderr, " <query>")
		}
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}
	return fs
}
