// Command layoutdb is the CLI entry point for the instrument layout graph.
package main

import (
	"fmt"
	"os"

	layoutdb "github.com/instrumentgraph/layoutdb/cmd/layoutdb"
)

func main() {
	if err := layoutdb.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
