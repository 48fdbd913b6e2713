package tree

import (
	"testing"

	"pgregory.net/rapid"
)

// n builds a HierNode for tests.
func n(name string, children ...*HierNode) *HierNode {
	return &HierNode{Name: name, Children: children}
}

// sampleTree returns A{B{D,E},C} with IDs assigned (A=1, B=2, D=3, E=4, C=5).
func sampleTree() []*HierNode {
	roots := []*HierNode{
		n("A",
			n("B", n("D"), n("E")),
			n("C"),
		),
	}
	AssignIDs(roots)
	return roots
}

// idsByName maps names to IDs; names must be unique in the tree.
func idsByName(roots []*HierNode) map[string]NodeID {
	ids := make(map[string]NodeID)
	Walk(roots, func(n *HierNode, _ int) bool {
		ids[n.Name] = n.ID
		return true
	})
	return ids
}

func newSampleController(t *testing.T) (*Controller, map[string]NodeID) {
	t.Helper()
	roots := sampleTree()
	c := NewController()
	c.SetNodes(NewFlattener().Flatten(roots))
	return c, idsByName(roots)
}

func selectedNames(c *Controller) []string {
	var names []string
	for _, id := range c.Selected() {
		node, ok := c.Node(id)
		if !ok {
			continue
		}
		names = append(names, node.Name)
	}
	return names
}

var genNames = []string{"a", "B", "c", "D", "well", "WELL"}

// genForest draws a small random forest with IDs assigned.
func genForest(t *rapid.T) []*HierNode {
	var gen func(depth int) *HierNode
	gen = func(depth int) *HierNode {
		node := &HierNode{Name: rapid.SampledFrom(genNames).Draw(t, "name")}
		if depth < 3 {
			kids := rapid.IntRange(0, 3).Draw(t, "kids")
			for i := 0; i < kids; i++ {
				node.Children = append(node.Children, gen(depth+1))
			}
		}
		return node
	}

	count := rapid.IntRange(1, 3).Draw(t, "roots")
	roots := make([]*HierNode, 0, count)
	for i := 0; i < count; i++ {
		roots = append(roots, gen(0))
	}
	AssignIDs(roots)
	return roots
}

func sameIDs(a, b []NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
