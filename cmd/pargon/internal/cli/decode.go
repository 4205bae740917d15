package cli

import (
	"fmt"
	"os"

	"charm.land/log/v2"
	"github.com/spf13/cobra"

	"github.com/blockberries/pargon/pkg/pargon"
)

func newDecodeCommand(logger *log.Logger) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a Pargon binary blueprint into PON or JSON text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			data, err := readInput(path)
			if err != nil {
				return err
			}

			r := pargon.NewBufferReader(data, pargon.DefaultOptions)
			doc := r.ReadBlueprint()
			if err := r.Err(); err != nil {
				return err
			}
			logger.Debug("decoded document", "bytes", len(data), "kind", doc.Kind().String())

			text, err := writeTextBlueprint(&doc, format)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(os.Stdout, text)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "pon", "output text format: pon or json")
	return cmd
}
