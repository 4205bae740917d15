// Package cli wires the pargon command tree together: encode, decode,
// convert, and inspect all operate on a Blueprint document read from a
// file or stdin, so none of them needs a schema to run.
package cli

import (
	"fmt"
	"io"
	"os"

	"charm.land/log/v2"
	"github.com/spf13/cobra"

	"github.com/blockberries/pargon/pkg/pargon"
)

// NewRootCommand builds the pargon command tree.
func NewRootCommand(logger *log.Logger) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "pargon",
		Short:         "Convert and inspect Pargon documents",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newEncodeCommand(logger),
		newDecodeCommand(logger),
		newConvertCommand(logger),
		newInspectCommand(logger),
	)
	return root
}

// readInput reads path, or stdin when path is "-" or empty.
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// parseTextBlueprint parses src as PON or JSON depending on format,
// where format is one of "pon" or "json".
func parseTextBlueprint(src string, format string) (pargon.Blueprint, error) {
	r := pargon.NewStringReader(src, pargon.DefaultOptions)
	switch format {
	case "json":
		return r.ReadBlueprint("json")
	case "pon", "":
		return r.ReadBlueprint("pon")
	default:
		return pargon.Blueprint{}, fmt.Errorf("unknown format %q (want pon or json)", format)
	}
}

// writeTextBlueprint renders doc as PON or JSON, pretty-printed.
func writeTextBlueprint(doc *pargon.Blueprint, format string) (string, error) {
	w := pargon.NewStringWriter(pargon.DefaultOptions)
	switch format {
	case "json":
		if err := w.WriteBlueprint(doc, "JSON"); err != nil {
			return "", err
		}
	case "pon", "":
		if err := w.WriteBlueprint(doc, "PON"); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown format %q (want pon or json)", format)
	}
	return w.String(), nil
}
