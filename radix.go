package resolver

import radix "github.com/armon/go-radix"

// elementTrie is a typed wrapper around a radix tree keyed by package name,
// storing each package's conflict family (its version elements, including
// the empty/removed choice). It exists so the rest of the graph builder
// never has to type-assert its way in and out of the untyped radix.Tree.
// Walk visits names in ascending order and backs
// DependencyGraph.PackageNames; the auto-removal sweep and modified-package
// enumeration iterate solution entries instead and do not use it.
type elementTrie struct {
	t *radix.Tree
}

func newElementTrie() elementTrie {
	return elementTrie{t: radix.New()}
}

// Get returns the conflict family for packageName, if the package has been
// seen by the graph builder yet.
func (t elementTrie) Get(packageName string) ([]*Element, bool) {
	if v, ok := t.t.Get(packageName); ok {
		return v.([]*Element), true
	}
	return nil, false
}

// Insert replaces the conflict family stored for packageName.
func (t elementTrie) Insert(packageName string, family []*Element) {
	t.t.Insert(packageName, family)
}

// Len returns the number of distinct package names indexed.
func (t elementTrie) Len() int {
	return t.t.Len()
}

// Walk visits every (packageName, family) pair in ascending key order. The
// callback returning true stops the walk early.
func (t elementTrie) Walk(fn func(packageName string, family []*Element) bool) {
	t.t.Walk(func(s string, v interface{}) bool {
		return fn(s, v.([]*Element))
	})
}
