package tree

import (
	"strings"

	"github.com/vanderheijden86/wellpick/pkg/debug"
)

// Listener receives the current (possibly filtered) tree.
type Listener func(roots []*HierNode)

// Store holds the canonical dataset and publishes the filtered view to its
// subscribers. Publishing is synchronous: listeners run before SetFilterText
// or Replace returns.
type Store struct {
	canonical  []*HierNode
	byID       map[NodeID]*HierNode
	filterText string
	view       []*HierNode

	listeners map[int]Listener
	order     []int
	nextSub   int
}

// NewStore creates a store over roots. IDs are assigned to any node that
// lacks one; the nodes must not be modified afterwards.
func NewStore(roots []*HierNode) *Store {
	s := &Store{listeners: make(map[int]Listener)}
	s.load(roots)
	s.view = s.canonical
	return s
}

func (s *Store) load(roots []*HierNode) {
	AssignIDs(roots)
	s.canonical = roots
	s.byID = make(map[NodeID]*HierNode)
	Walk(roots, func(n *HierNode, _ int) bool {
		s.byID[n.ID] = n
		return true
	})
}

// Tree returns the canonical dataset. Callers must treat it as read-only.
func (s *Store) Tree() []*HierNode {
	return s.canonical
}

// View returns the tree as last published (filtered when a filter is set).
func (s *Store) View() []*HierNode {
	return s.view
}

// FilterText returns the active filter.
func (s *Store) FilterText() string {
	return s.filterText
}

// Lookup finds a canonical node by ID.
func (s *Store) Lookup(id NodeID) (*HierNode, bool) {
	n, ok := s.byID[id]
	return n, ok
}

// PathKeys maps every canonical node ID to a key built from the names on
// the path from its root. Siblings sharing a name get the same key.
func (s *Store) PathKeys() map[NodeID]string {
	keys := make(map[NodeID]string, len(s.byID))
	var path []string
	Walk(s.canonical, func(n *HierNode, depth int) bool {
		path = append(path[:depth], n.Name)
		keys[n.ID] = strings.Join(path, "\x00")
		return true
	})
	return keys
}

// SetFilterText recomputes the filtered view and publishes it once.
// Empty text publishes the unfiltered tree.
func (s *Store) SetFilterText(text string) {
	s.filterText = text
	s.refresh()
}

// Replace swaps the canonical dataset (e.g. after the dataset file changed
// on disk), re-applies the current filter and publishes once.
func (s *Store) Replace(roots []*HierNode) {
	s.load(roots)
	s.refresh()
}

func (s *Store) refresh() {
	s.view = Filter(s.canonical, s.filterText)
	debug.Log("tree: filter %q -> %d of %d nodes", s.filterText, Count(s.view), len(s.byID))
	s.publish()
}

// Subscribe registers fn and calls it immediately with the current view.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.order = append(s.order, id)
	fn(s.view)

	return func() {
		if _, ok := s.listeners[id]; !ok {
			return
		}
		delete(s.listeners, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

func (s *Store) publish() {
	ids := append([]int(nil), s.order...)
	for _, id := range ids {
		if fn, ok := s.listeners[id]; ok {
			fn(s.view)
		}
	}
}
