// Command classlift lifts JVM-bytecode methods, described by a fixture
// document (internal/envelope), into the static-single-assignment IR that
// internal/lift and internal/ir define.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "classlift: %v\n", err)
		os.Exit(1)
	}
}
