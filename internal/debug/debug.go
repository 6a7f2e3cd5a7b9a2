// Package debug provides $DEBUG-gated trace printing to stderr.
package debug

import (
	"fmt"
	"os"
)

var enabled = os.Getenv("DEBUG") != ""

// Printf prints a trace line to stderr if the DEBUG environment variable is
// set.
func Printf(format string, args ...interface{}) {
	if enabled {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
