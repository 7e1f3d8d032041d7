package resolver

import "strings"

// FailStep is one link in a failure chain: the version that was selected,
// and the relation whose repair is what selected it (nil at the root).
type FailStep struct {
	Version *Element
	Broken  *Element
}

func (s FailStep) String() string {
	if s.Broken == nil {
		return s.Version.String()
	}
	return s.Broken.String()
}

func sameStep(a, b FailStep) bool {
	return a.Version == b.Version && a.Broken == b.Broken
}

type failNode struct {
	step     FailStep
	children []*failNode
	dominant bool
}

func subtreeDepth(n *failNode) int {
	if len(n.children) == 0 {
		return 1
	}
	max := 0
	for _, c := range n.children {
		if d := subtreeDepth(c); d > max {
			max = d
		}
	}
	return max + 1
}

// DecisionFailTree accumulates, across every failed branch the Search
// Engine gives up on, the chain of decisions that led to the failure, and
// merges those chains into a tree over their common prefix so the most
// relevant (shortest, unavoidable) explanation can be surfaced to the
// caller instead of an arbitrary one.
type DecisionFailTree struct {
	root *failNode
}

// NewDecisionFailTree returns an empty tree.
func NewDecisionFailTree() *DecisionFailTree {
	return &DecisionFailTree{root: &failNode{}}
}

// RecordFailure walks back from lastBroken through the solution's
// introduced-by chain, building a root-cause-first sequence of decisions,
// and merges it into the tree.
func (t *DecisionFailTree) RecordFailure(store *SolutionStorage, s *Solution, lastBroken *Element) {
	if lastBroken == nil {
		return
	}

	var chain []FailStep
	cur := lastBroken
	for cur != nil {
		dependant := cur.Dependant
		version := dependant
		var introducedBy IntroducedBy
		if entry, ok := store.GetEntry(s, dependant.Package); ok {
			version = entry.Element
			introducedBy = entry.IntroducedBy
		}
		chain = append(chain, FailStep{Version: version, Broken: cur})
		if introducedBy.Empty() {
			break
		}
		cur = introducedBy.BrokenElement
	}

	reversed := make([]FailStep, len(chain))
	for i, step := range chain {
		reversed[len(chain)-1-i] = step
	}

	t.insert(t.root, reversed, 0)
}

func (t *DecisionFailTree) insert(node *failNode, chain []FailStep, idx int) {
	if idx >= len(chain) {
		return
	}
	step := chain[idx]

	for _, child := range node.children {
		if sameStep(child.step, step) {
			t.insert(child, chain, idx+1)
			return
		}
	}

	remaining := len(chain) - idx
	for _, existing := range node.children {
		// A shallower existing sibling dominates and absorbs the new, deeper
		// chain, so the new chain is not added.
		if subtreeDepth(existing) < remaining {
			return
		}
	}

	newChild := &failNode{step: step, dominant: true}
	cur := newChild
	for i := idx + 1; i < len(chain); i++ {
		nc := &failNode{step: chain[i]}
		cur.children = append(cur.children, nc)
		cur = nc
	}

	var kept []*failNode
	for _, existing := range node.children {
		// A branch that does not extend further (shallower subtree) never
		// caused later breakage, so it dominates and absorbs a deeper,
		// still-breaking sibling diverging at the same point.
		if remaining <= subtreeDepth(existing) {
			continue
		}
		kept = append(kept, existing)
	}
	node.children = append([]*failNode{newChild}, kept...)
}

// String renders the tree with indentation proportional to decision depth,
// dominant branches first.
func (t *DecisionFailTree) String() string {
	var b strings.Builder
	for _, child := range t.root.children {
		renderFailNode(&b, child, 0)
	}
	return b.String()
}

func renderFailNode(b *strings.Builder, n *failNode, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.step.String())
	b.WriteString("\n")
	for _, c := range n.children {
		renderFailNode(b, c, depth+1)
	}
}

// BestExplanation returns the single most relevant failure chain: the
// dominant branch at each level, down to its deepest leaf.
func (t *DecisionFailTree) BestExplanation() string {
	var steps []string
	n := t.root
	for len(n.children) > 0 {
		n = n.children[0]
		steps = append(steps, n.step.String())
	}
	return strings.Join(steps, " -> ")
}
