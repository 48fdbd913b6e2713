package tree

import (
	"strings"

	"github.com/vanderheijden86/wellpick/pkg/debug"
)

// PickerOption configures a Picker.
type PickerOption func(*Picker)

// WithExpandOnFilter controls whether a non-empty filter expands every node
// (and clearing it collapses every node). Enabled by default.
func WithExpandOnFilter(enabled bool) PickerOption {
	return func(p *Picker) {
		p.expandOnFilter = enabled
	}
}

// Picker wires a Store, a Flattener and a Controller together: every tree
// the store publishes is flattened and handed to the controller.
type Picker struct {
	store          *Store
	flattener      *Flattener
	ctrl           *Controller
	expandOnFilter bool
	unsubscribe    func()
}

// NewPicker subscribes to store and flattens its current view.
func NewPicker(store *Store, opts ...PickerOption) *Picker {
	p := &Picker{
		store:          store,
		flattener:      NewFlattener(),
		ctrl:           NewController(),
		expandOnFilter: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.unsubscribe = store.Subscribe(p.onTree)
	return p
}

func (p *Picker) onTree(roots []*HierNode) {
	nodes := p.flattener.Flatten(roots)
	p.ctrl.SetNodes(nodes)
	debug.Log("tree: flattened %d nodes (%d associations)", len(nodes), p.flattener.Len())
}

// Store returns the underlying store.
func (p *Picker) Store() *Store { return p.store }

// Controller returns the expansion/selection controller.
func (p *Picker) Controller() *Controller { return p.ctrl }

// Flattener returns the flattener used for the current view.
func (p *Picker) Flattener() *Flattener { return p.flattener }

// SetFilterText filters the tree, then expands everything for a non-empty
// filter or collapses everything when the filter is cleared.
func (p *Picker) SetFilterText(text string) {
	p.store.SetFilterText(text)
	if !p.expandOnFilter {
		return
	}
	if text != "" {
		p.ctrl.ExpandAll()
	} else {
		p.ctrl.CollapseAll()
	}
}

// Reload swaps in a new canonical dataset. Expansion and selection follow
// nodes by their name path; state for nodes that disappeared is dropped.
// Composite selection is then rechecked against the new children.
func (p *Picker) Reload(roots []*HierNode) {
	before := p.store.PathKeys()
	p.store.Replace(roots)
	after := make(map[string]NodeID)
	for id, key := range p.store.PathKeys() {
		after[key] = id
	}
	p.ctrl.Remap(func(id NodeID) (NodeID, bool) {
		key, ok := before[id]
		if !ok {
			return 0, false
		}
		nid, ok := after[key]
		return nid, ok
	})
	p.ctrl.RecheckAll()
}

// SelectedNames returns the names of the selected nodes in tree order,
// including nodes hidden by the filter.
func (p *Picker) SelectedNames() []string {
	ids := p.ctrl.Selected()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if n, ok := p.store.Lookup(id); ok {
			names = append(names, n.Name)
		}
	}
	return names
}

// Summary joins the selected names with sep, or returns placeholder when
// nothing is selected.
func (p *Picker) Summary(sep, placeholder string) string {
	names := p.SelectedNames()
	if len(names) == 0 {
		return placeholder
	}
	return strings.Join(names, sep)
}

// Close removes the picker's store subscription.
func (p *Picker) Close() {
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}
