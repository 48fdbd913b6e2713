package tree

import "testing"

func TestStoreSubscribeReceivesCurrentView(t *testing.T) {
	s := NewStore(sampleTree())

	var got []string
	s.Subscribe(func(roots []*HierNode) {
		got = append(got, String(roots))
	})

	if len(got) != 1 || got[0] != "A{B{D,E},C}" {
		t.Errorf("subscribe should deliver the current tree once, got %v", got)
	}
}

func TestStoreSetFilterTextPublishesOnce(t *testing.T) {
	s := NewStore(sampleTree())

	var calls int
	var last string
	s.Subscribe(func(roots []*HierNode) {
		calls++
		last = String(roots)
	})
	calls = 0

	s.SetFilterText("D")
	if calls != 1 {
		t.Errorf("expected 1 publish, got %d", calls)
	}
	if last != "A{B{D}}" {
		t.Errorf("published %q", last)
	}
	if s.FilterText() != "D" {
		t.Errorf("FilterText = %q", s.FilterText())
	}

	s.SetFilterText("")
	if last != "A{B{D,E},C}" {
		t.Errorf("clearing the filter should publish the full tree, got %q", last)
	}
}

func TestStoreTreeIsCanonical(t *testing.T) {
	roots := sampleTree()
	s := NewStore(roots)
	s.SetFilterText("D")

	if String(s.Tree()) != "A{B{D,E},C}" {
		t.Error("Tree should return the unfiltered dataset")
	}
	if String(s.View()) != "A{B{D}}" {
		t.Errorf("View = %s", String(s.View()))
	}
}

func TestStoreUnsubscribe(t *testing.T) {
	s := NewStore(sampleTree())

	var a, b int
	unsubA := s.Subscribe(func([]*HierNode) { a++ })
	s.Subscribe(func([]*HierNode) { b++ })

	unsubA()
	unsubA() // second call is a no-op
	s.SetFilterText("C")

	if a != 1 {
		t.Errorf("unsubscribed listener called %d times", a)
	}
	if b != 2 {
		t.Errorf("remaining listener called %d times, want 2", b)
	}
}

func TestStoreLookup(t *testing.T) {
	s := NewStore([]*HierNode{n("A", n("B"))})

	node, ok := s.Lookup(2)
	if !ok || node.Name != "B" {
		t.Errorf("Lookup(2) = %v, %v", node, ok)
	}
	if _, ok := s.Lookup(42); ok {
		t.Error("Lookup of an unknown ID should fail")
	}
}

func TestStoreReplaceReappliesFilter(t *testing.T) {
	s := NewStore(sampleTree())
	s.SetFilterText("D")

	var last string
	s.Subscribe(func(roots []*HierNode) { last = String(roots) })

	s.Replace([]*HierNode{n("X", n("D"), n("Y"))})
	if last != "X{D}" {
		t.Errorf("after replace got %q", last)
	}
}

func TestStorePathKeys(t *testing.T) {
	s := NewStore(sampleTree())
	keys := s.PathKeys()

	if keys[3] != "A\x00B\x00D" {
		t.Errorf("key of D = %q", keys[3])
	}
	if keys[5] != "A\x00C" {
		t.Errorf("key of C = %q", keys[5])
	}
}
