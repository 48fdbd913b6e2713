package tree

import "strings"

// Filter returns the nodes whose name equals text (case-insensitive), each
// with its full subtree, plus the ancestor chains leading to them.
//
// Matching is exact on the whole name, not a substring search. A matching
// node is returned as-is and its subtree is not filtered further. A
// non-matching node survives only as a new node carrying the same ID and
// name and just the children that lead to a match. Canonical nodes are never
// modified.
//
// Empty text returns roots unchanged.
func Filter(roots []*HierNode, text string) []*HierNode {
	if text == "" {
		return roots
	}
	needle := strings.ToLower(text)

	var result []*HierNode
	for _, n := range roots {
		if kept := filterNode(n, needle); kept != nil {
			result = append(result, kept)
		}
	}
	return result
}

func filterNode(n *HierNode, needle string) *HierNode {
	if n == nil {
		return nil
	}
	if strings.ToLower(n.Name) == needle {
		return n
	}
	if len(n.Children) == 0 {
		return nil
	}

	var children []*HierNode
	for _, child := range n.Children {
		if kept := filterNode(child, needle); kept != nil {
			children = append(children, kept)
		}
	}
	if len(children) == 0 {
		return nil
	}
	return &HierNode{ID: n.ID, Name: n.Name, Children: children}
}
