// Command pargon is a small CLI front-end over the Pargon serialization
// engines: it converts between PON, JSON, and Pargon's binary blueprint
// encoding, and prints a document's tree structure for inspection.
//
// Usage:
//
//	pargon encode [--format pon|json] <file>
//	pargon decode [--format pon|json] <file>
//	pargon convert --to pon|json <file>
//	pargon inspect <file>
package main

import (
	"fmt"
	"os"

	"charm.land/log/v2"

	"github.com/blockberries/pargon/cmd/pargon/internal/cli"
)

func main() {
	logger := log.New(os.Stderr)
	logger.SetLevel(log.WarnLevel)

	root := cli.NewRootCommand(logger)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pargon: %v\n", err)
		os.Exit(1)
	}
}
