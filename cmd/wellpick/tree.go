package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/wellpick/pkg/tree"
)

func addTree(topLevel *cobra.Command, o *options) {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the dataset as a tree, optionally filtered",
		Example: `
wellpick tree
wellpick tree --filter 五井
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.load()
			if err != nil {
				return err
			}
			defer s.picker.Close()

			out := cmd.OutOrStdout()
			return printTree(out, s.picker.Store().View(), o.filter, newTreeStyles(out))
		},
	}
	topLevel.AddCommand(cmd)
}

type treeStyles struct {
	branch lipgloss.Style
	match  lipgloss.Style
	leaf   lipgloss.Style
	inner  lipgloss.Style
}

// newTreeStyles colors output only when w is a terminal.
func newTreeStyles(w io.Writer) treeStyles {
	if !isTerminal(w) {
		plain := lipgloss.NewStyle()
		return treeStyles{branch: plain, match: plain, leaf: plain, inner: plain}
	}
	r := lipgloss.NewRenderer(w)
	return treeStyles{
		branch: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#6272A4"}),
		match:  r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}).Bold(true),
		leaf:   r.NewStyle(),
		inner:  r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}).Bold(true),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printTree draws roots with box-drawing branches. Nodes whose name equals
// filter (case-insensitively) use the match style.
func printTree(w io.Writer, roots []*tree.HierNode, filter string, st treeStyles) error {
	if len(roots) == 0 {
		_, err := fmt.Fprintln(w, "no matching nodes")
		return err
	}
	needle := strings.ToLower(filter)

	var err error
	var walk func(nodes []*tree.HierNode, prefix string, top bool)
	walk = func(nodes []*tree.HierNode, prefix string, top bool) {
		for i, n := range nodes {
			if err != nil {
				return
			}
			last := i == len(nodes)-1
			branch, next := "├── ", prefix+"│   "
			if last {
				branch, next = "└── ", prefix+"    "
			}
			if top {
				branch, next = "", ""
			}

			style := st.leaf
			if !n.IsLeaf() {
				style = st.inner
			}
			if needle != "" && strings.ToLower(n.Name) == needle {
				style = st.match
			}
			_, err = fmt.Fprintln(w, st.branch.Render(prefix+branch)+style.Render(n.Name))
			walk(n.Children, next, false)
		}
	}
	walk(roots, "", true)
	return err
}
