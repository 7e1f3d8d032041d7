package resolver

// Action describes one atomic change from a parent solution to a child: a
// single package's chosen element is swapped, optionally recording new
// rejections for that package in the child's branch.
type Action struct {
	Package      string
	NewElement   *Element
	IntroducedBy IntroducedBy
	Reject       []*Element
	// Sticked marks the resulting entry as pinned by a hard (must) user
	// request, as opposed to a choice the engine is still free to revisit.
	Sticked bool
}

// SolutionStorage owns every Solution produced during one resolve call: it
// assigns ids, performs copy-on-write forking, and incrementally maintains
// each solution's broken-successor set as entries change.
type SolutionStorage struct {
	graph    *DependencyGraph
	priority func(*Element) int
	nextID   uint64
	initial  map[string]*Element
}

// NewSolutionStorage creates a store bound to graph. priority computes the
// breakage priority of a relation element; the Search Engine supplies it so
// the store need not know about user-request importance or solver state.
func NewSolutionStorage(graph *DependencyGraph, priority func(*Element) int) *SolutionStorage {
	return &SolutionStorage{graph: graph, priority: priority}
}

func (st *SolutionStorage) newID() uint64 {
	st.nextID++
	return st.nextID
}

// CreateInitial builds the root solution from the currently installed
// versions (already expressed as version elements by the caller).
func (st *SolutionStorage) CreateInitial(initial map[string]*Element) *Solution {
	st.initial = initial

	s := &Solution{
		ID:      st.newID(),
		entries: newCowMap[string, PackageEntry](),
		broken:  newCowMap[uint64, BrokenSuccessor](),
	}
	for pkg, elem := range initial {
		s.entries.set(pkg, PackageEntry{Element: elem})
	}
	for pkg := range initial {
		st.updateBrokenSuccessors(s, pkg)
	}
	s.baseSize = len(initial)
	return s
}

// Fork creates a new child solution applying action on top of parent.
// Parent is left untouched; the child shares parent's layers until it
// writes its own entry.
func (st *SolutionStorage) Fork(parent *Solution, action Action) *Solution {
	child := &Solution{
		ID:       st.newID(),
		ParentID: parent.ID,
		Score:    parent.Score,
		Level:    parent.Level + 1,
		entries:  parent.entries.fork(),
		broken:   parent.broken.fork(),
		baseSize: parent.baseSize,
	}
	st.apply(child, action)
	st.maybeCompact(child)
	return child
}

// SetVersion writes action directly into solution's own top layer, without
// forking. Used when only one repair action survives pruning and the
// engine chooses to mutate in place instead of allocating a child.
func (st *SolutionStorage) SetVersion(s *Solution, action Action) {
	st.apply(s, action)
}

// GetVersion returns the version element currently chosen for pkg, or nil
// if pkg has never been touched.
func (st *SolutionStorage) GetVersion(s *Solution, pkg string) *Element {
	entry, ok := s.entries.get(pkg)
	if !ok {
		return nil
	}
	return entry.Element
}

// GetEntry returns the full package entry for pkg.
func (st *SolutionStorage) GetEntry(s *Solution, pkg string) (PackageEntry, bool) {
	return s.entries.get(pkg)
}

// AddRejection records that versionElement must never be (re-)selected for
// pkg within s's branch.
func (st *SolutionStorage) AddRejection(s *Solution, pkg string, versionElement *Element) {
	entry, _ := s.entries.get(pkg)
	entry.Rejected = append(entry.Rejected, versionElement)
	s.entries.set(pkg, entry)
}

// IsRejected reports whether versionElement has been rejected in s's branch
// for pkg.
func (st *SolutionStorage) IsRejected(s *Solution, pkg string, versionElement *Element) bool {
	entry, ok := s.entries.get(pkg)
	if !ok {
		return false
	}
	for _, r := range entry.Rejected {
		if r == versionElement {
			return true
		}
	}
	return false
}

// BrokenSuccessors returns every currently broken relation in s, in no
// particular order; callers that need a specific order should sort.
func (st *SolutionStorage) BrokenSuccessors(s *Solution) []BrokenSuccessor {
	var out []BrokenSuccessor
	s.broken.forEach(func(_ uint64, bs BrokenSuccessor) {
		out = append(out, bs)
	})
	return out
}

// ForEachModifiedPackage visits only the packages whose current choice
// differs from the initial solution's choice. A package absent from the
// initial solution counts as modified only when a non-empty version is
// chosen for it.
func (st *SolutionStorage) ForEachModifiedPackage(s *Solution, fn func(pkg string, entry PackageEntry)) {
	s.entries.forEach(func(pkg string, entry PackageEntry) {
		initElem, ok := st.initial[pkg]
		if ok && initElem == entry.Element {
			return
		}
		// An untouched package keeps the initial choice; for one absent from
		// the initial solution that is the empty element.
		if !ok && entry.Element.IsEmpty() {
			return
		}
		fn(pkg, entry)
	})
}

// ForEachPackage visits every package touched in s, modified or not.
func (st *SolutionStorage) ForEachPackage(s *Solution, fn func(pkg string, entry PackageEntry)) {
	s.entries.forEach(fn)
}

func (st *SolutionStorage) apply(s *Solution, action Action) {
	entry, hadPrev := s.entries.get(action.Package)
	next := PackageEntry{
		Element:      action.NewElement,
		IntroducedBy: action.IntroducedBy,
		Level:        s.Level,
		Sticked:      action.Sticked,
	}
	if hadPrev {
		next.Rejected = append(append([]*Element{}, entry.Rejected...), action.Reject...)
	} else {
		next.Rejected = action.Reject
	}
	s.entries.set(action.Package, next)
	st.updateBrokenSuccessors(s, action.Package)
}

// updateBrokenSuccessors recomputes broken/fixed status for every relation
// that could have changed truth value because changedPackage's selection
// moved: the relations the new choice itself depends on, and every
// relation for which some version of changedPackage is a satisfier.
func (st *SolutionStorage) updateBrokenSuccessors(s *Solution, changedPackage string) {
	entry, ok := s.entries.get(changedPackage)
	if !ok {
		return
	}

	for _, rel := range st.graph.Successors(entry.Element) {
		if rel.Kind == RelationElementKind || rel.Kind == SyncElementKind {
			st.refreshBroken(s, rel)
		}
	}

	for _, ve := range st.graph.ConflictFamily(entry.Element) {
		for _, pred := range st.graph.Predecessors(ve) {
			if pred.Kind == RelationElementKind || pred.Kind == SyncElementKind {
				st.refreshBroken(s, pred)
			}
		}
	}
}

func (st *SolutionStorage) refreshBroken(s *Solution, rel *Element) {
	if st.isBroken(s, rel) {
		s.broken.set(rel.id, BrokenSuccessor{Element: rel, Priority: st.priority(rel)})
	} else {
		s.broken.remove(rel.id)
	}
}

// isSelected reports whether versionElement is the currently chosen element
// for its package in s.
func (st *SolutionStorage) isSelected(s *Solution, versionElement *Element) bool {
	cur, ok := s.entries.get(versionElement.Package)
	return ok && cur.Element == versionElement
}

// isBroken evaluates whether relation element rel is currently broken in s.
func (st *SolutionStorage) isBroken(s *Solution, rel *Element) bool {
	if rel.Kind == SyncElementKind {
		return st.isSyncBroken(s, rel)
	}

	if !st.isSelected(s, rel.Dependant) {
		return false
	}

	successors := st.graph.Successors(rel)
	if rel.IsAnti() {
		for _, conflictor := range successors {
			if conflictor.Kind == VersionElementKind && st.isSelected(s, conflictor) {
				return true
			}
		}
		return false
	}

	for _, satisfier := range successors {
		if st.isSelected(s, satisfier) {
			return false
		}
	}
	return true
}

// isSyncBroken evaluates a SyncElementKind element: broken when some
// package pinned to exactly rel's source version is currently selected
// (the pin is "anchored") and some other package sharing the source is
// currently selected at a different, non-empty version.
func (st *SolutionStorage) isSyncBroken(s *Solution, rel *Element) bool {
	anchored := false
	for _, pred := range st.graph.Predecessors(rel) {
		if pred.Kind == VersionElementKind && st.isSelected(s, pred) {
			anchored = true
			break
		}
	}
	if !anchored {
		return false
	}

	successors := st.graph.Successors(rel)
	seenPkg := make(map[string]bool)
	for _, safe := range successors {
		if seenPkg[safe.Package] {
			continue
		}
		seenPkg[safe.Package] = true

		cur := st.GetVersion(s, safe.Package)
		if cur == nil || cur.IsEmpty() {
			continue
		}

		matches := false
		for _, alt := range successors {
			if alt.Package == safe.Package && alt == cur {
				matches = true
				break
			}
		}
		if !matches {
			return true
		}
	}
	return false
}

// AcceptBreakage forks parent into a child where rel's breakage is
// tolerated rather than repaired: no package selection changes, but rel is
// removed from the child's broken set. Used for soft (recommends/suggests)
// relations the Search Engine chooses to leave unsatisfied, paying its
// score penalty instead of continuing to search for a satisfier.
func (st *SolutionStorage) AcceptBreakage(parent *Solution, rel *Element) *Solution {
	child := &Solution{
		ID:       st.newID(),
		ParentID: parent.ID,
		Score:    parent.Score,
		Level:    parent.Level + 1,
		entries:  parent.entries.fork(),
		broken:   parent.broken.fork(),
		baseSize: parent.baseSize,
	}
	child.broken.remove(rel.id)
	st.maybeCompact(child)
	return child
}

func (st *SolutionStorage) maybeCompact(s *Solution) {
	if s.entries.shouldCompact(s.baseSize) {
		s.entries = s.entries.compact()
		s.baseSize = len(s.entries.layer)
	}
	if s.broken.shouldCompact(s.baseSize) {
		s.broken = s.broken.compact()
	}
}
