// Command semgraph is the CLI front end for the embedding API in the root
// package: `analyze` runs the full pipeline and renders a report, `query`
// answers one read-only question against a freshly built project graph.
// Grounded on the teacher's single-purpose CLI shape generalized onto
// cobra/pflag (bufbuild-buf, termfx-morfx both build their CLIs this way),
// per spec.md §6's CLI contract.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
