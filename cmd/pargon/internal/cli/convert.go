package cli

import (
	"fmt"
	"os"

	"charm.land/log/v2"
	"github.com/spf13/cobra"
)

func newConvertCommand(logger *log.Logger) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a document between PON and JSON text",
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

			doc, err := parseTextBlueprint(string(src), from)
			if err != nil {
				return err
			}
			logger.Debug("converting document", "from", from, "to", to)

			text, err := writeTextBlueprint(&doc, to)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(os.Stdout, text)
			return err
		},
	}
	cmd.Flags().StringVar(&from, "from", "pon", "input text format: pon or json")
	cmd.Flags().StringVar(&to, "to", "json", "output text format: pon or json")
	return cmd
}
