package resolver

import "testing"

func TestRecordFailureWalksIntroducedByChain(t *testing.T) {
	cache := newMemCache()
	cfg := testConfig()
	g, st := buildGraph(cache, cfg)

	fooV := pkgv("foo", "1.0")
	cache.addVersion(fooV)
	fooElem := g.GetOrCreateVersionElement("foo", fooV)

	barV := pkgv("bar", "1.0")
	cache.addVersion(barV)
	barElem := g.GetOrCreateVersionElement("bar", barV)

	rel := g.GetOrCreateRelationElement(fooElem, Depends, RelationExpression{Kind: Depends, Expression: "bar"})

	s := st.CreateInitial(map[string]*Element{"foo": fooElem})
	// Simulate bar having been selected as a consequence of repairing rel,
	// without going through the Search Engine.
	child := st.Fork(s, Action{
		Package:    "bar",
		NewElement: barElem,
		IntroducedBy: IntroducedBy{
			VersionElement: barElem,
			BrokenElement:  rel,
			Reason:         NewDependencyReason(fooV, Depends, rel.Clause),
		},
	})

	tree := NewDecisionFailTree()
	tree.RecordFailure(st, child, rel)

	explanation := tree.BestExplanation()
	if explanation == "" {
		t.Fatalf("expected a non-empty explanation after recording a failure")
	}
}

func TestRecordFailureNilBrokenIsNoop(t *testing.T) {
	tree := NewDecisionFailTree()
	tree.RecordFailure(nil, nil, nil)
	if tree.BestExplanation() != "" {
		t.Fatalf("expected no explanation when lastBroken is nil")
	}
}

func TestDecisionFailTreeShallowSiblingDominatesDeeper(t *testing.T) {
	tree := NewDecisionFailTree()

	a := &Element{id: 1, Kind: VersionElementKind, Package: "a"}
	b := &Element{id: 2, Kind: VersionElementKind, Package: "b"}
	c := &Element{id: 3, Kind: VersionElementKind, Package: "c"}

	shallow := []FailStep{{Version: a}, {Version: b}}
	tree.insert(tree.root, shallow, 0)

	deep := []FailStep{{Version: a}, {Version: c}, {Version: b}}
	tree.insert(tree.root, deep, 0)

	if len(tree.root.children) != 1 {
		t.Fatalf("expected a single top-level branch after merge, got %d", len(tree.root.children))
	}
	top := tree.root.children[0]
	if top.step.Version != a {
		t.Fatalf("top branch step = %v, want a", top.step.Version)
	}
	// The shallower sibling (direct a->b) must win over the deeper a->c->b
	// chain, since it never caused further breakage.
	if len(top.children) != 1 || top.children[0].step.Version != b {
		t.Fatalf("expected the dominant shallow branch a->b to survive, got children=%v", top.children)
	}
}

func TestDecisionFailTreeStringRendersIndented(t *testing.T) {
	tree := NewDecisionFailTree()
	a := &Element{id: 1, Kind: VersionElementKind, Package: "a"}
	b := &Element{id: 2, Kind: VersionElementKind, Package: "b"}
	tree.insert(tree.root, []FailStep{{Version: a}, {Version: b}}, 0)

	out := tree.String()
	if out == "" {
		t.Fatalf("String() returned empty output for a non-empty tree")
	}
}
