package resolver

// IntroducedBy is the back-pointer from one selection to the broken
// relation and dependant version that forced it, used to reconstruct
// human-readable reasons and to build the Decision Fail Tree.
type IntroducedBy struct {
	// VersionElement is the version element that was selected as a
	// consequence — nil for the initial installed choice and for
	// auto-removals.
	VersionElement *Element
	// BrokenElement is the relation element whose repair selected
	// VersionElement; for a direct user request this is the request's own
	// relation element. Nil for the initial installed choice and for
	// auto-removals.
	BrokenElement *Element
	Reason        Reason
}

// Empty reports whether this back-pointer carries no broken-relation chain
// (the selection is a root cause: an initial installed choice or an
// auto-removal).
func (ib IntroducedBy) Empty() bool {
	return ib.BrokenElement == nil
}

// PackageEntry is the per-package state carried in one layer of a
// Solution's entry map.
type PackageEntry struct {
	Element      *Element // the chosen version element, including the empty choice
	IntroducedBy IntroducedBy
	Rejected     []*Element // version elements this branch will never reselect
	Level        int        // search depth at which this entry was written
	Sticked      bool       // true if a hard user request pinned this choice
}

// BrokenSuccessor names a relation element that is currently broken —
// selected but unsatisfied — together with the breakage priority the
// Search Engine uses to decide which broken relation to repair next.
type BrokenSuccessor struct {
	Element  *Element
	Priority int
}

// Solution is one candidate system state in the search frontier. Solutions
// are owned by a SolutionStorage; callers never construct one directly.
type Solution struct {
	ID       uint64
	ParentID uint64
	Score    int64
	Level    int

	entries  *cowMap[string, PackageEntry]
	broken   *cowMap[uint64, BrokenSuccessor]
	baseSize int // entry count of the deepest compacted ancestor, for the compaction heuristic
}

// Finished reports whether the solution currently has no broken successors
// — i.e. every hard relation among currently selected versions is
// satisfied.
func (s *Solution) Finished() bool {
	finished := true
	s.broken.forEach(func(_ uint64, _ BrokenSuccessor) {
		finished = false
	})
	return finished
}
