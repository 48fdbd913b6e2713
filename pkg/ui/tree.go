package ui

import (
	"strings"

	"github.com/vanderheijden86/wellpick/pkg/tree"
)

// indicatorFor returns the expand glyph for a row.
func indicatorFor(node *tree.FlatNode, expanded bool) string {
	if !node.Expandable {
		return GlyphLeaf
	}
	if expanded {
		return GlyphExpanded
	}
	return GlyphCollapsed
}

// checkboxFor returns the checkbox glyph for a check state.
func checkboxFor(state tree.CheckState) string {
	switch state {
	case tree.Checked:
		return BoxChecked
	case tree.Partial:
		return BoxPartial
	default:
		return BoxUnchecked
	}
}

// renderRow draws one dropdown row: indent, expand glyph, checkbox, name.
// The name is truncated so the row fits width cells.
func (m PickerModel) renderRow(node *tree.FlatNode, isCursor bool, width int) string {
	ctrl := m.picker.Controller()
	t := m.theme

	indent := strings.Repeat(" ", node.Depth*IndentWidth)
	glyph := indicatorFor(node, ctrl.IsExpanded(node.ID))
	state := ctrl.CheckState(node.ID)
	box := checkboxFor(state)

	// indent + glyph + space + box + space
	used := len(indent) + 1 + 1 + len(box) + 1
	name := truncateRunesHelper(node.Name, width-used, "…")

	if isCursor {
		return t.Cursor.Render(padRight(indent+glyph+" "+box+" "+name, width))
	}

	boxStyle := t.Unchecked
	switch state {
	case tree.Checked:
		boxStyle = t.Checked
	case tree.Partial:
		boxStyle = t.Partial
	}
	return indent + t.Indicator.Render(glyph) + " " + boxStyle.Render(box) + " " + t.Base.Render(name)
}
