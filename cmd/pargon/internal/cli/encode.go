package cli

import (
	"os"

	"charm.land/log/v2"
	"github.com/spf13/cobra"

	"github.com/blockberries/pargon/pkg/pargon"
)

func newEncodeCommand(logger *log.Logger) *cobra.Command {
	var format string
	var out string

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode a PON or JSON document into Pargon's binary blueprint form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			src, err := readInput(path)
			if err != nil {
				return err
			}

			doc, err := parseTextBlueprint(string(src), format)
			if err != nil {
				return err
			}
			logger.Debug("parsed document", "format", format, "kind", doc.Kind().String())

			w := pargon.NewBufferWriter(pargon.DefaultOptions)
			w.WriteBlueprint(&doc)
			if err := w.Err(); err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err = os.Stdout.Write(w.Bytes())
				return err
			}
			return os.WriteFile(out, w.Bytes(), 0o644)
		},
	}
	cmd.Flags().StringVar(&format, "format", "pon", "input text format: pon or json")
	cmd.Flags().StringVar(&out, "out", "-", "output file, or - for stdout")
	return cmd
}
