// Package tree holds the picker's in-memory model: the canonical well tree,
// the name filter, the flattener that turns nested nodes into an ordered
// depth-annotated sequence, and the controller that tracks expansion and
// tri-state checkbox selection over that sequence.
//
// Everything here is synchronous and single-threaded. The UI layer owns a
// Picker and calls into it from its update loop only.
package tree

import "strings"

// NodeID identifies a node across filter and flatten passes.
// Zero means "not yet assigned".
type NodeID int

// HierNode is a node of the canonical nested tree (oilfield, block, well).
// A node with no children is a leaf.
type HierNode struct {
	ID       NodeID      `json:"-" yaml:"-"`
	Name     string      `json:"name" yaml:"name"`
	Children []*HierNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n *HierNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// FlatNode is the flattened view of a HierNode used for linear traversal
// and rendering.
type FlatNode struct {
	ID         NodeID `json:"id"`
	Name       string `json:"name"`
	Depth      int    `json:"depth"`      // Number of ancestors (0 = root)
	Expandable bool   `json:"expandable"` // Source node has at least one child
}

// AssignIDs numbers every node in pre-order starting at 1 and returns the
// next unused ID. Nodes that already carry an ID keep it.
func AssignIDs(roots []*HierNode) NodeID {
	next := NodeID(1)
	Walk(roots, func(n *HierNode, _ int) bool {
		if n.ID >= next {
			next = n.ID + 1
		}
		return true
	})
	Walk(roots, func(n *HierNode, _ int) bool {
		if n.ID == 0 {
			n.ID = next
			next++
		}
		return true
	})
	return next
}

// Walk visits nodes in pre-order. Returning false from fn skips the node's
// children.
func Walk(roots []*HierNode, fn func(n *HierNode, depth int) bool) {
	var walk func(nodes []*HierNode, depth int)
	walk = func(nodes []*HierNode, depth int) {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			if fn(n, depth) {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(roots, 0)
}

// Count returns the total number of nodes under roots.
func Count(roots []*HierNode) int {
	count := 0
	Walk(roots, func(*HierNode, int) bool {
		count++
		return true
	})
	return count
}

// Clone returns a deep copy of the nodes, IDs included.
func Clone(roots []*HierNode) []*HierNode {
	if roots == nil {
		return nil
	}
	out := make([]*HierNode, 0, len(roots))
	for _, n := range roots {
		if n == nil {
			continue
		}
		out = append(out, &HierNode{
			ID:       n.ID,
			Name:     n.Name,
			Children: Clone(n.Children),
		})
	}
	return out
}

// String renders the tree in the compact form used by tests and debug
// logs, e.g. "A{B{D,E},C}".
func String(roots []*HierNode) string {
	var sb strings.Builder
	var write func(nodes []*HierNode)
	write = func(nodes []*HierNode) {
		for i, n := range nodes {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(n.Name)
			if len(n.Children) > 0 {
				sb.WriteByte('{')
				write(n.Children)
				sb.WriteByte('}')
			}
		}
	}
	write(roots)
	return sb.String()
}
