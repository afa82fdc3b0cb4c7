// Command postag part-of-speech tags text files.
package main

import (
	"fmt"

	"github.com/jamesainslie/go-postag/internal/cli"
)

// Set by the build via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Execute(fmt.Sprintf("%s (commit %s, built %s)", version, commit, date))
}
