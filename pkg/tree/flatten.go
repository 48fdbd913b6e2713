package tree

// Flattener converts nested nodes into a pre-order sequence of FlatNodes
// and keeps the association between each HierNode and its FlatNode for the
// most recent pass.
//
// FlatNodes are keyed by NodeID. When a node with the same ID and name shows
// up again in a later pass, the previous FlatNode value is reused so that
// anything holding on to it (or to its ID) stays valid across re-filtering.
type Flattener struct {
	flat   map[NodeID]*FlatNode
	source map[NodeID]*HierNode
	nextID NodeID
}

// NewFlattener creates an empty flattener.
func NewFlattener() *Flattener {
	return &Flattener{
		flat:   make(map[NodeID]*FlatNode),
		source: make(map[NodeID]*HierNode),
		nextID: 1,
	}
}

// Flatten walks roots depth-first, producing one FlatNode per node with
// depth 0 for every root. Associations from earlier passes whose nodes are
// not part of this pass are dropped.
//
// Nodes without an ID are given one here, written in place into the
// caller's HierNode. Such IDs are only stable for as long as the same
// HierNode value is flattened again. Nodes that come from a Store already
// carry IDs and are left untouched.
func (f *Flattener) Flatten(roots []*HierNode) []*FlatNode {
	f.reserve(roots)

	prev := f.flat
	f.flat = make(map[NodeID]*FlatNode, len(prev))
	f.source = make(map[NodeID]*HierNode, len(prev))

	nodes := make([]*FlatNode, 0, len(prev))
	Walk(roots, func(n *HierNode, depth int) bool {
		if n.ID == 0 {
			n.ID = f.nextID
			f.nextID++
		}

		fn, ok := prev[n.ID]
		if !ok || fn.Name != n.Name {
			fn = &FlatNode{ID: n.ID}
		}
		fn.Name = n.Name
		fn.Depth = depth
		fn.Expandable = len(n.Children) > 0

		f.flat[n.ID] = fn
		f.source[n.ID] = n
		nodes = append(nodes, fn)
		return true
	})
	return nodes
}

// reserve moves nextID past every ID already present in roots.
func (f *Flattener) reserve(roots []*HierNode) {
	Walk(roots, func(n *HierNode, _ int) bool {
		if n.ID >= f.nextID {
			f.nextID = n.ID + 1
		}
		return true
	})
}

// Source returns the nested node a flat node was produced from in the last pass.
func (f *Flattener) Source(fn *FlatNode) (*HierNode, bool) {
	if fn == nil {
		return nil, false
	}
	n, ok := f.source[fn.ID]
	return n, ok
}

// FlatOf returns the flat node produced for n in the last pass.
func (f *Flattener) FlatOf(n *HierNode) (*FlatNode, bool) {
	if n == nil || n.ID == 0 {
		return nil, false
	}
	fn, ok := f.flat[n.ID]
	return fn, ok
}

// Len returns the number of node associations currently held.
func (f *Flattener) Len() int {
	return len(f.flat)
}
