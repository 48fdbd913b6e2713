package tree

import (
	"fmt"
	"sort"
)

// CheckState is the checkbox state shown for a node.
type CheckState int

const (
	Unchecked CheckState = iota
	Checked
	Partial // Some but not all descendants selected
)

// Controller tracks which nodes are expanded and which are selected over the
// current flat sequence.
//
// Both sets are keyed by NodeID and outlive individual flatten passes, so a
// selection survives re-filtering. Operations taking an ID require the node
// to be part of the sequence passed to the last SetNodes call and panic
// otherwise; a stale ID is a caller bug.
type Controller struct {
	nodes    []*FlatNode
	index    map[NodeID]int
	expanded map[NodeID]bool
	selected map[NodeID]bool
}

// NewController creates a controller with no nodes, nothing expanded and
// nothing selected.
func NewController() *Controller {
	return &Controller{
		index:    make(map[NodeID]int),
		expanded: make(map[NodeID]bool),
		selected: make(map[NodeID]bool),
	}
}

// SetNodes installs a new flat sequence. Expansion and selection state are
// kept as-is.
func (c *Controller) SetNodes(nodes []*FlatNode) {
	c.nodes = nodes
	c.index = make(map[NodeID]int, len(nodes))
	for i, n := range nodes {
		c.index[n.ID] = i
	}
}

// Nodes returns the current flat sequence.
func (c *Controller) Nodes() []*FlatNode {
	return c.nodes
}

// Node returns the flat node with the given ID from the current sequence.
func (c *Controller) Node(id NodeID) (*FlatNode, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.nodes[i], true
}

func (c *Controller) mustIndex(id NodeID) int {
	i, ok := c.index[id]
	if !ok {
		panic(fmt.Sprintf("tree: node %d is not in the current flat sequence", id))
	}
	return i
}

// Descendants returns the contiguous run of nodes after id whose depth is
// greater than id's depth.
func (c *Controller) Descendants(id NodeID) []*FlatNode {
	i := c.mustIndex(id)
	depth := c.nodes[i].Depth
	end := i + 1
	for end < len(c.nodes) && c.nodes[end].Depth > depth {
		end++
	}
	return c.nodes[i+1 : end]
}

// ParentOf returns the nearest preceding node whose depth is one less than
// id's depth. Roots have no parent.
func (c *Controller) ParentOf(id NodeID) (NodeID, bool) {
	i := c.mustIndex(id)
	depth := c.nodes[i].Depth
	if depth < 1 {
		return 0, false
	}
	for j := i - 1; j >= 0; j-- {
		if c.nodes[j].Depth == depth-1 {
			return c.nodes[j].ID, true
		}
	}
	return 0, false
}

// ============================================================================
// Expansion
// ============================================================================

// ToggleExpand flips the expanded state of id.
func (c *Controller) ToggleExpand(id NodeID) {
	c.mustIndex(id)
	if c.expanded[id] {
		delete(c.expanded, id)
	} else {
		c.expanded[id] = true
	}
}

// Expand marks id as expanded.
func (c *Controller) Expand(id NodeID) {
	c.mustIndex(id)
	c.expanded[id] = true
}

// Collapse marks id as collapsed.
func (c *Controller) Collapse(id NodeID) {
	c.mustIndex(id)
	delete(c.expanded, id)
}

// IsExpanded reports whether id is expanded.
func (c *Controller) IsExpanded(id NodeID) bool {
	return c.expanded[id]
}

// ExpandAll expands every expandable node in the current sequence.
func (c *Controller) ExpandAll() {
	for _, n := range c.nodes {
		if n.Expandable {
			c.expanded[n.ID] = true
		}
	}
}

// CollapseAll empties the expanded set.
func (c *Controller) CollapseAll() {
	c.expanded = make(map[NodeID]bool)
}

// Expanded returns the expanded IDs in ascending order.
func (c *Controller) Expanded() []NodeID {
	return sortedIDs(c.expanded)
}

// Visible returns the nodes a tree view shows: every root, and every node
// whose ancestors are all expanded.
func (c *Controller) Visible() []*FlatNode {
	visible := make([]*FlatNode, 0, len(c.nodes))
	hiddenBelow := -1
	for _, n := range c.nodes {
		if hiddenBelow >= 0 {
			if n.Depth > hiddenBelow {
				continue
			}
			hiddenBelow = -1
		}
		visible = append(visible, n)
		if n.Expandable && !c.expanded[n.ID] {
			hiddenBelow = n.Depth
		}
	}
	return visible
}

// ============================================================================
// Selection
// ============================================================================

// ToggleSelection flips id's selection and applies the new state to all of
// its descendants, then rechecks its ancestors.
func (c *Controller) ToggleSelection(id NodeID) {
	c.mustIndex(id)
	selected := !c.selected[id]
	c.setSelected(id, selected)
	for _, d := range c.Descendants(id) {
		c.setSelected(d.ID, selected)
	}
	c.AncestorRecheck(id)
}

// ToggleLeafSelection flips id's selection only, then rechecks its ancestors.
func (c *Controller) ToggleLeafSelection(id NodeID) {
	c.mustIndex(id)
	c.setSelected(id, !c.selected[id])
	c.AncestorRecheck(id)
}

// Toggle picks ToggleSelection for expandable nodes and ToggleLeafSelection
// for leaves, the way a checkbox click does.
func (c *Controller) Toggle(id NodeID) {
	i := c.mustIndex(id)
	if c.nodes[i].Expandable {
		c.ToggleSelection(id)
	} else {
		c.ToggleLeafSelection(id)
	}
}

// AncestorRecheck walks from id's parent to the root. An ancestor that is
// selected while some descendant is not gets deselected; one that is not
// selected while all descendants are gets selected.
func (c *Controller) AncestorRecheck(id NodeID) {
	parent, ok := c.ParentOf(id)
	for ok {
		c.recheck(parent)
		parent, ok = c.ParentOf(parent)
	}
}

// RecheckAll applies the ancestor recheck to every expandable node, children
// before parents, so each one is selected exactly when all of its
// descendants are.
func (c *Controller) RecheckAll() {
	for i := len(c.nodes) - 1; i >= 0; i-- {
		if c.nodes[i].Expandable {
			c.recheck(c.nodes[i].ID)
		}
	}
}

func (c *Controller) recheck(id NodeID) {
	selected := c.selected[id]
	all := c.IsFullySelected(id)
	switch {
	case selected && !all:
		c.setSelected(id, false)
	case !selected && all:
		c.setSelected(id, true)
	}
}

// IsSelected reports whether id itself is selected.
func (c *Controller) IsSelected(id NodeID) bool {
	return c.selected[id]
}

// IsFullySelected reports whether every descendant of id is selected.
// Vacuously true for leaves.
func (c *Controller) IsFullySelected(id NodeID) bool {
	for _, d := range c.Descendants(id) {
		if !c.selected[d.ID] {
			return false
		}
	}
	return true
}

// IsPartiallySelected reports whether some, but not all, descendants of id
// are selected.
func (c *Controller) IsPartiallySelected(id NodeID) bool {
	some, all := false, true
	for _, d := range c.Descendants(id) {
		if c.selected[d.ID] {
			some = true
		} else {
			all = false
		}
	}
	return some && !all
}

// CheckState returns the checkbox state for id: leaves show their own
// selection, expandable nodes show the state of their descendants.
func (c *Controller) CheckState(id NodeID) CheckState {
	i := c.mustIndex(id)
	if !c.nodes[i].Expandable {
		if c.selected[id] {
			return Checked
		}
		return Unchecked
	}
	switch {
	case c.IsFullySelected(id):
		return Checked
	case c.IsPartiallySelected(id):
		return Partial
	default:
		return Unchecked
	}
}

// Selected returns the selected IDs in ascending order. IDs of nodes hidden
// by the current filter are included.
func (c *Controller) Selected() []NodeID {
	return sortedIDs(c.selected)
}

// SelectedCount returns the number of selected IDs.
func (c *Controller) SelectedCount() int {
	return len(c.selected)
}

// ClearSelection deselects everything.
func (c *Controller) ClearSelection() {
	c.selected = make(map[NodeID]bool)
}

// Remap rewrites the expanded and selected sets through fn, dropping IDs
// for which fn reports false. Used when the dataset is reloaded and node IDs
// are reassigned.
func (c *Controller) Remap(fn func(NodeID) (NodeID, bool)) {
	c.expanded = remapSet(c.expanded, fn)
	c.selected = remapSet(c.selected, fn)
}

func remapSet(set map[NodeID]bool, fn func(NodeID) (NodeID, bool)) map[NodeID]bool {
	out := make(map[NodeID]bool, len(set))
	for id := range set {
		if nid, ok := fn(id); ok {
			out[nid] = true
		}
	}
	return out
}

func (c *Controller) setSelected(id NodeID, selected bool) {
	if selected {
		c.selected[id] = true
	} else {
		delete(c.selected, id)
	}
}

func sortedIDs(set map[NodeID]bool) []NodeID {
	ids := make([]NodeID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
