package resolver

import (
	"fmt"
	"sort"
)

type relationKey struct {
	dependant uint64
	kind      RelationKind
	clause    string
}

type syncKey struct {
	sourceName    string
	sourceVersion string
}

// DependencyGraph materializes, on demand, the elements of the dependency
// graph and the edges among them. It owns an arena of Elements for the
// lifetime of one resolve call; nothing is ever freed. An element's
// successors are fixed once it is unfolded, except the root pseudo-package's,
// which AddRootSuccessor grows; predecessor lists keep growing as other
// elements are unfolded.
type DependencyGraph struct {
	cache  Cache
	config *Config

	families elementTrie // package name -> conflict family (version elements, including empty)

	relations map[relationKey]*Element
	syncs     map[syncKey]*Element

	successors   map[*Element][]*Element
	predecessors map[*Element][]*Element
	unfolded     map[*Element]bool

	nextID uint64
}

// NewDependencyGraph builds an empty graph bound to cache and config. Both
// must outlive the graph.
func NewDependencyGraph(cache Cache, config *Config) *DependencyGraph {
	return &DependencyGraph{
		cache:        cache,
		config:       config,
		families:     newElementTrie(),
		relations:    make(map[relationKey]*Element),
		syncs:        make(map[syncKey]*Element),
		successors:   make(map[*Element][]*Element),
		predecessors: make(map[*Element][]*Element),
		unfolded:     make(map[*Element]bool),
	}
}

func (g *DependencyGraph) newID() uint64 {
	g.nextID++
	return g.nextID
}

// GetOrCreateVersionElement returns the interned version element for
// (packageName, version). Passing a nil version returns the package's
// distinguished empty/removed choice. Idempotent: the same arguments always
// return the same pointer.
func (g *DependencyGraph) GetOrCreateVersionElement(packageName string, version *Version) *Element {
	family, ok := g.families.Get(packageName)
	if !ok {
		empty := &Element{id: g.newID(), Kind: VersionElementKind, Package: packageName}
		family = []*Element{empty}
		g.families.Insert(packageName, family)
	}

	if version == nil {
		return family[0]
	}

	for _, e := range family {
		if e.Version != nil && e.Version.VersionString == version.VersionString {
			return e
		}
	}

	e := &Element{id: g.newID(), Kind: VersionElementKind, Package: packageName, Version: version}
	family = append(family, e)
	g.families.Insert(packageName, family)
	return e
}

// GetOrCreateRelationElement returns the interned relation element tying
// dependantVersion to the given clause of the given kind.
func (g *DependencyGraph) GetOrCreateRelationElement(dependantVersion *Element, kind RelationKind, clause RelationExpression) *Element {
	key := relationKey{dependant: dependantVersion.id, kind: kind, clause: clause.Expression}
	if e, ok := g.relations[key]; ok {
		return e
	}
	e := &Element{
		id:        g.newID(),
		Kind:      RelationElementKind,
		Dependant: dependantVersion,
		RelKind:   kind,
		Clause:    clause,
	}
	g.relations[key] = e
	return e
}

// GetOrCreateUserRequestElement returns the interned relation element for a
// direct top-level request against root of the given kind and clause,
// resolved against the Cache the same way an ordinary dependency line
// would be. Unlike GetOrCreateRelationElement it tags the element as a user
// request so the Search Engine's breakage priority and reason rendering
// treat it specially.
func (g *DependencyGraph) GetOrCreateUserRequestElement(root *Element, kind RelationKind, clause RelationExpression, importance Importance, annotation string) *Element {
	key := relationKey{dependant: root.id, kind: kind, clause: clause.Expression}
	if e, ok := g.relations[key]; ok {
		return e
	}
	e := &Element{
		id:             g.newID(),
		Kind:           RelationElementKind,
		Dependant:      root,
		RelKind:        kind,
		Clause:         clause,
		IsUserRequest:  true,
		UserImportance: importance,
		Annotation:     annotation,
	}
	g.relations[key] = e
	return e
}

// GetOrCreateDirectRelationElement is like GetOrCreateUserRequestElement,
// but for a request whose single successor is already known (installing or
// removing a specific, already-identified version) rather than something
// the Cache must resolve from a clause string.
func (g *DependencyGraph) GetOrCreateDirectRelationElement(root *Element, kind RelationKind, label string, target *Element, importance Importance, annotation string) *Element {
	clause := RelationExpression{Kind: kind, Expression: label}
	e := g.GetOrCreateUserRequestElement(root, kind, clause, importance, annotation)
	g.SetDirectSuccessors(e, []*Element{target})
	return e
}

// GetOrCreateSyncElement returns the interned synchronization element that
// pins every binary package built from sourceName to sourceVersion. Its
// successors are computed eagerly against the full cache (not just
// already-unfolded elements), since siblings sharing a source may not yet
// have been reached by the lazy unfold walk: for every other package that
// has any version built from sourceName, the safe choices are its empty
// element (not present, so nothing to keep in step) and whichever of its
// own versions carries exactly sourceVersion.
func (g *DependencyGraph) GetOrCreateSyncElement(sourceName, sourceVersion string) *Element {
	key := syncKey{sourceName: sourceName, sourceVersion: sourceVersion}
	if e, ok := g.syncs[key]; ok {
		return e
	}

	e := &Element{id: g.newID(), Kind: SyncElementKind, SourceName: sourceName, SourceVersionPin: sourceVersion}
	g.syncs[key] = e
	g.unfolded[e] = true

	names := append([]string(nil), g.cache.BinaryPackageNames()...)
	sort.Strings(names)

	var succ []*Element
	for _, name := range names {
		pkg := g.cache.BinaryPackage(name)
		if pkg == nil {
			continue
		}
		sharesSource := false
		for _, v := range pkg.Versions {
			if v.SourceName == sourceName {
				sharesSource = true
				break
			}
		}
		if !sharesSource {
			continue
		}

		succ = append(succ, g.GetOrCreateVersionElement(name, nil))
		for _, v := range pkg.Versions {
			if v.SourceName == sourceName && v.SourceVersion == sourceVersion {
				succ = append(succ, g.GetOrCreateVersionElement(name, v))
			}
		}
	}

	g.successors[e] = succ
	for _, s := range succ {
		g.predecessors[s] = append(g.predecessors[s], e)
	}
	return e
}

// SetDirectSuccessors wires rel's successors directly, bypassing the
// Cache-driven resolution Unfold would otherwise perform, and marks rel as
// already unfolded. Used for requests whose successor set the public
// interface computes itself (a specific version to install, the set of
// newer versions for an upgrade request).
func (g *DependencyGraph) SetDirectSuccessors(rel *Element, succ []*Element) {
	g.successors[rel] = succ
	for _, s := range succ {
		g.predecessors[s] = append(g.predecessors[s], rel)
	}
	g.unfolded[rel] = true
	if len(succ) == 0 {
		rel.unsatisfiable = true
	}
}

// AddRootSuccessor attaches rel as one of root's successors without
// triggering Unfold on root itself; used to grow the set of top-level user
// requests incrementally as the public interface receives them.
func (g *DependencyGraph) AddRootSuccessor(root, rel *Element) {
	g.successors[root] = append(g.successors[root], rel)
	g.predecessors[rel] = append(g.predecessors[rel], root)
}

// MarkUnfolded records e as already unfolded without computing its
// successors, so a later Unfold(e) call is a no-op. Used for the root
// pseudo-package, whose successors are grown incrementally by
// AddRootSuccessor rather than computed in one pass from a Version's
// Relations map.
func (g *DependencyGraph) MarkUnfolded(e *Element) {
	g.unfolded[e] = true
}

// Unfold ensures element's successors (and predecessors) are materialized.
// It is safe to call more than once; only the first call does any work.
func (g *DependencyGraph) Unfold(e *Element) error {
	if g.unfolded[e] {
		return nil
	}
	g.unfolded[e] = true

	var succ []*Element
	switch e.Kind {
	case VersionElementKind:
		if e.Version != nil {
			for kind, clauses := range e.Version.Relations {
				for _, clause := range clauses {
					rel := g.GetOrCreateRelationElement(e, kind, clause)
					succ = append(succ, rel)
					if kind.IsAnti() {
						if err := g.Unfold(rel); err != nil {
							return err
						}
						for _, conflictor := range g.successors[rel] {
							if conflictor.Kind == VersionElementKind && conflictor.Package != e.Package {
								succ = append(succ, conflictor)
							}
						}
					}
				}
			}
			if g.config.SynchronizeSourceVersions && e.Version.SourceName != "" && e.Version.SourceVersion != "" {
				succ = append(succ, g.GetOrCreateSyncElement(e.Version.SourceName, e.Version.SourceVersion))
			}
		}
	case RelationElementKind:
		sats := g.cache.SatisfyingVersions(e.Clause)
		for _, v := range sats {
			if v == nil {
				return fmt.Errorf("contract violation: nil satisfier returned for relation %s", e.Clause)
			}
			ve := g.GetOrCreateVersionElement(v.Package, v)
			succ = append(succ, ve)
		}
		if len(succ) == 0 {
			e.unsatisfiable = true
		}
	}

	g.successors[e] = succ
	for _, s := range succ {
		g.predecessors[s] = append(g.predecessors[s], e)
	}
	return nil
}

// Successors returns e's materialized successors, unfolding it first if
// necessary.
func (g *DependencyGraph) Successors(e *Element) []*Element {
	if !g.unfolded[e] {
		_ = g.Unfold(e)
	}
	return g.successors[e]
}

// Predecessors returns e's materialized predecessors. Unlike Successors,
// this does not trigger unfolding of e itself (predecessors accumulate as a
// side effect of other elements being unfolded).
func (g *DependencyGraph) Predecessors(e *Element) []*Element {
	return g.predecessors[e]
}

// ConflictFamily returns every version element sharing e's package
// (including the empty choice) when e is a version element, or the
// singleton [e] otherwise.
func (g *DependencyGraph) ConflictFamily(e *Element) []*Element {
	if e.Kind != VersionElementKind {
		return []*Element{e}
	}
	family, ok := g.families.Get(e.Package)
	if !ok {
		return []*Element{e}
	}
	return family
}

// EmptyElement returns the distinguished "no version" choice for
// packageName, creating the conflict family if this is the first time the
// package has been seen.
func (g *DependencyGraph) EmptyElement(packageName string) *Element {
	return g.GetOrCreateVersionElement(packageName, nil)
}

// PackageNames returns every package name with a materialized conflict
// family, in stable sorted order.
func (g *DependencyGraph) PackageNames() []string {
	var names []string
	g.families.Walk(func(name string, _ []*Element) bool {
		names = append(names, name)
		return false
	})
	return names
}
