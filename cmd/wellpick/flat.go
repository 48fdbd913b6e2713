package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/wellpick/pkg/tree"
)

func addFlat(topLevel *cobra.Command, o *options) {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "flat",
		Short: "Print the flattened node sequence with depth and expandability",
		Example: `
wellpick flat
wellpick flat --filter 一井 --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.load()
			if err != nil {
				return err
			}
			defer s.picker.Close()

			nodes := s.picker.Controller().Nodes()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), nodes)
			}
			return printFlat(cmd.OutOrStdout(), nodes)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	topLevel.AddCommand(cmd)
}

func printFlat(w io.Writer, nodes []*tree.FlatNode) error {
	if _, err := fmt.Fprintf(w, "%-4s %-5s %-3s %s\n", "ID", "DEPTH", "EXP", "NAME"); err != nil {
		return err
	}
	for _, n := range nodes {
		exp := "-"
		if n.Expandable {
			exp = "+"
		}
		indent := strings.Repeat("  ", n.Depth)
		if _, err := fmt.Fprintf(w, "%-4d %-5d %-3s %s%s\n", n.ID, n.Depth, exp, indent, n.Name); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
