package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/log/v2"
	"github.com/spf13/cobra"

	"github.com/blockberries/pargon/pkg/pargon"
)

var (
	kindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true)
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	scalarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func newInspectCommand(logger *log.Logger) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print a document's tree structure",
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
			logger.Debug("inspecting document", "format", format)

			printNode(os.Stdout, "$", &doc, 0)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "pon", "input text format: pon or json")
	return cmd
}

func printNode(w io.Writer, name string, b *pargon.Blueprint, depth int) {
	prefix := ""
	for i := 0; i < depth; i++ {
		prefix += "  "
	}

	switch b.Kind() {
	case pargon.KindArray:
		arr, _ := b.AsArray()
		fmt.Fprintf(w, "%s%s %s[%d]\n", prefix, keyStyle.Render(name), kindStyle.Render(b.Kind().String()), len(arr))
		for i := range arr {
			printNode(w, "["+strconv.Itoa(i)+"]", &arr[i], depth+1)
		}
	case pargon.KindObject:
		keys := b.ObjectKeys()
		fmt.Fprintf(w, "%s%s %s{%d}\n", prefix, keyStyle.Render(name), kindStyle.Render(b.Kind().String()), len(keys))
		for _, k := range keys {
			child, _ := b.ObjectGet(k)
			printNode(w, k, child, depth+1)
		}
	default:
		fmt.Fprintf(w, "%s%s %s = %s\n", prefix, keyStyle.Render(name), kindStyle.Render(b.Kind().String()), scalarStyle.Render(scalarText(b)))
	}
}

func scalarText(b *pargon.Blueprint) string {
	switch b.Kind() {
	case pargon.KindNull:
		return "null"
	case pargon.KindBool:
		v, _ := b.AsBool()
		return strconv.FormatBool(v)
	case pargon.KindInt:
		v, _ := b.AsInt()
		return strconv.FormatInt(v, 10)
	case pargon.KindFloat:
		v, _ := b.AsFloat()
		return strconv.FormatFloat(v, 'g', -1, 64)
	case pargon.KindString:
		v, _ := b.AsString()
		return strconv.Quote(v)
	default:
		return "<invalid>"
	}
}
