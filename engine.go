package resolver

import (
	"context"
	"sort"
	"time"
)

// breakagePriority orders broken successors for repair, highest first, per
// spec.md §4.E: a hard relation with no possible satisfier at all (a
// deadend) always goes first so a hopeless branch is recognized as early as
// possible; then a hard (must) user request; then hard package relations,
// themselves ordered pre-depends > depends > conflicts > breaks; then soft
// (try/wish) user requests; then recommends; then suggests.
func breakagePriority(rel *Element) int {
	switch {
	case rel.Unsatisfiable() && !rel.IsSoft():
		return 6000
	case rel.IsUserRequest && rel.UserImportance == Must:
		return 5000
	case !rel.IsSoft() && !rel.IsUserRequest:
		return 4000 + rel.RelKind.hardPriority()*10
	case rel.IsUserRequest:
		return 3000 + int(rel.UserImportance)
	case rel.Kind == RelationElementKind && rel.RelKind == Recommends:
		return 2000
	case rel.Kind == SyncElementKind:
		return 900
	default:
		return 1000
	}
}

// pickBrokenSuccessor selects, among every currently broken relation, the
// one to repair next: highest priority first, ties broken by the id of the
// dependant version element (earlier-introduced first) and then by package
// name, so that two runs over the same inputs always explore in the same
// order.
func pickBrokenSuccessor(brokens []BrokenSuccessor) *Element {
	if len(brokens) == 0 {
		return nil
	}
	best := brokens[0]
	for _, b := range brokens[1:] {
		if brokenSuccessorLess(best, b) {
			best = b
		}
	}
	return best.Element
}

// brokenSuccessorLess reports whether b should be preferred over a. A
// synchronization element has no single dependant (Dependant is nil, shared
// across every package pinning the same source version), so its own id and
// source name stand in for the tie-break key an ordinary relation would take
// from its dependant.
func brokenSuccessorLess(a, b BrokenSuccessor) bool {
	if a.Priority != b.Priority {
		return b.Priority > a.Priority
	}
	aID, aPkg := tieBreakKey(a.Element)
	bID, bPkg := tieBreakKey(b.Element)
	if aID != bID {
		return bID < aID
	}
	return bPkg < aPkg
}

// tieBreakKey returns the (id, package-like-name) pair brokenSuccessorLess
// compares: the dependant's for an ordinary relation, rel's own for a
// synchronization element.
func tieBreakKey(rel *Element) (uint64, string) {
	if rel.Dependant != nil {
		return rel.Dependant.ID(), rel.Dependant.Package
	}
	return rel.ID(), rel.SourceName
}

func versionOf(e *Element) *Version {
	if e == nil || e.IsEmpty() {
		return nil
	}
	return e.Version
}

// SolutionCallback is handed every Finished solution the Search Engine
// discovers, in non-increasing score order, already passed through the
// auto-removal (and, if enabled, synchronization) passes. Returning
// accept=true stops the search and Run returns this solution. Returning
// abandon=true stops the search immediately and Run returns a
// DeclinedError. Returning neither tells the engine to keep searching for
// the next-best solution.
type SolutionCallback func(*Solution) (accept bool, abandon bool)

// SearchEngine drives the best-first backtracking search described in
// spec.md §4.E: pop the highest-scoring solution from the frontier, repair
// its highest-priority broken successor by forking one child per surviving
// repair action, and repeat until a Finished solution is accepted, the
// caller abandons, or the frontier is exhausted.
type SearchEngine struct {
	cache   Cache
	config  *Config
	graph   *DependencyGraph
	storage *SolutionStorage
	scorer  *ScoreManager
	oracle  *AutoRemovalOracle
	tracer  *Tracer

	failTree *DecisionFailTree
}

// NewSearchEngine wires together the components a resolve needs. storage
// must have been constructed with the package-level breakagePriority
// function as its priority callback.
func NewSearchEngine(cache Cache, config *Config, graph *DependencyGraph, storage *SolutionStorage, scorer *ScoreManager, oracle *AutoRemovalOracle) *SearchEngine {
	return &SearchEngine{
		cache:    cache,
		config:   config,
		graph:    graph,
		storage:  storage,
		scorer:   scorer,
		oracle:   oracle,
		tracer:   NewTracer(config.Trace),
		failTree: NewDecisionFailTree(),
	}
}

// Run searches starting from initial until onSolution accepts a Finished
// solution, abandons the search, or the frontier is exhausted.
func (se *SearchEngine) Run(ctx context.Context, initial *Solution, onSolution SolutionCallback) (*Solution, error) {
	frontier := NewFrontier()
	frontier.Push(initial)

	var deadline time.Time
	if se.config.MaxResolveTime > 0 {
		deadline = time.Now().Add(se.config.MaxResolveTime)
	}

	var bestFinished *int64
	iterations := 0
	attempts := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, &CancelledError{Reason: "context"}
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return nil, &CancelledError{Reason: "time budget"}
		}
		if se.config.MaxIterations > 0 && iterations >= se.config.MaxIterations {
			return nil, &CancelledError{Reason: "iteration limit"}
		}
		iterations++

		s := frontier.PopBest()
		if s == nil {
			return nil, &NoSolutionError{Explanation: se.failTree.BestExplanation()}
		}
		se.tracer.Pop(s)

		if s.Finished() {
			se.tracer.Finish(s)
			final := se.autoRemovalPass(s)

			attempts++
			accept, abandon := onSolution(final)
			if accept {
				return final, nil
			}
			if abandon {
				return nil, &DeclinedError{Attempts: attempts}
			}
			score := final.Score
			if bestFinished == nil || score > *bestFinished {
				bestFinished = &score
			}
			continue
		}

		brokens := se.storage.BrokenSuccessors(s)
		rel := pickBrokenSuccessor(brokens)
		se.tracer.Pick(rel, breakagePriority(rel))

		if rel.Unsatisfiable() && !rel.IsSoft() {
			se.failTree.RecordFailure(se.storage, s, rel)
			se.tracer.Deadend(s, rel)
			continue
		}

		actions := se.repairActions(s, rel)

		if len(actions) == 1 && !rel.IsSoft() {
			act := actions[0]
			delta := se.scoreDelta(s, act)
			se.storage.SetVersion(s, act)
			s.Score += delta
			se.tracer.Mutate(s, act)
			frontier.Push(s)
			continue
		}

		var children []*Solution
		for _, act := range actions {
			delta := se.scoreDelta(s, act)
			child := se.storage.Fork(s, act)
			child.Score = s.Score + delta
			se.tracer.Fork(s, child, act)
			children = append(children, child)
		}

		if rel.IsSoft() {
			var change ScoreChange
			switch {
			case rel.IsUserRequest:
				change = se.scorer.GetUnsatisfiedUserRequestScoreChange(rel.UserImportance)
			case rel.Kind == SyncElementKind:
				change = se.scorer.GetFailedSynchronizationScoreChange()
			case rel.RelKind == Recommends:
				change = se.scorer.GetUnsatisfiedRecommendsScoreChange()
			default:
				change = se.scorer.GetUnsatisfiedSuggestsScoreChange()
			}
			change.SetPosition(s.Level + 1)
			delta := se.scorer.Value(change)
			acceptChild := se.storage.AcceptBreakage(s, rel)
			acceptChild.Score = s.Score + delta
			se.tracer.Accept(acceptChild, rel)
			children = append(children, acceptChild)
		}

		if len(children) == 0 {
			se.failTree.RecordFailure(se.storage, s, rel)
			se.tracer.Deadend(s, rel)
			continue
		}

		for _, child := range children {
			if bestFinished != nil && child.Score <= *bestFinished {
				se.tracer.Prune(child, *bestFinished)
				continue
			}
			frontier.Push(child)
		}
	}
}

func (se *SearchEngine) scoreDelta(s *Solution, act Action) int64 {
	old := se.storage.GetVersion(s, act.Package)
	change := se.scorer.GetVersionScoreChange(versionOf(old), versionOf(act.NewElement))
	change.SetPosition(s.Level + 1)
	return se.scorer.Value(change)
}

// repairActions enumerates every way of making rel no longer broken: for a
// hard requirement, selecting one of its satisfiers; for a conflict,
// selecting an alternative for whichever conflicting package is currently
// active; and, for either kind, moving the dependant itself to a different
// version (including removing it), since that also discharges the
// obligation. Actions already rejected in s's branch, or that are no-ops,
// are skipped.
func (se *SearchEngine) repairActions(s *Solution, rel *Element) []Action {
	var actions []Action
	seen := make(map[*Element]bool)

	var reason Reason
	switch {
	case rel.IsUserRequest:
		reason = NewUserReason(rel.Annotation)
	case rel.Kind == SyncElementKind:
		reason = NewSynchronizationReason(rel.SourceName, rel.SourceVersionPin)
	default:
		reason = NewDependencyReason(versionOf(rel.Dependant), rel.RelKind, rel.Clause)
	}
	sticked := rel.IsUserRequest && rel.UserImportance == Must

	add := func(pkg string, elem *Element) {
		if seen[elem] {
			return
		}
		if se.storage.GetVersion(s, pkg) == elem {
			return
		}
		if se.storage.IsRejected(s, pkg, elem) {
			return
		}
		seen[elem] = true
		actions = append(actions, Action{
			Package:    pkg,
			NewElement: elem,
			Sticked:    sticked,
			IntroducedBy: IntroducedBy{
				VersionElement: elem,
				BrokenElement:  rel,
				Reason:         reason,
			},
		})
	}

	if rel.IsAnti() {
		for _, conflictor := range se.graph.Successors(rel) {
			if se.storage.GetVersion(s, conflictor.Package) != conflictor {
				continue
			}
			for _, alt := range se.graph.ConflictFamily(conflictor) {
				if alt == conflictor {
					continue
				}
				add(conflictor.Package, alt)
			}
		}
	} else {
		for _, satisfier := range se.graph.Successors(rel) {
			add(satisfier.Package, satisfier)
		}
	}

	// The root pseudo-package anchoring direct user requests is never a
	// candidate for its own removal or replacement — it has no real
	// identity to move away from. A synchronization element has no single
	// dependant at all (it is shared by every package pinning the same
	// source version), so there is nothing to move away here either.
	if rel.Dependant != nil && rel.Dependant.Package != rootPackageName {
		for _, alt := range se.graph.ConflictFamily(rel.Dependant) {
			if alt == rel.Dependant {
				continue
			}
			add(rel.Dependant.Package, alt)
		}
	}

	return actions
}

// autoRemovalPass drops packages the AutoRemovalOracle allows removing
// that nothing selected still needs, iterating to a fixpoint since one
// removal can make another package eligible in turn. A tentative removal
// that would break a hard relation is discarded rather than applied.
func (se *SearchEngine) autoRemovalPass(s *Solution) *Solution {
	if !se.oracle.enabled {
		return s
	}

	for {
		removedAny := false

		var names []string
		se.storage.ForEachPackage(s, func(pkg string, _ PackageEntry) {
			names = append(names, pkg)
		})
		sort.Strings(names)

		for _, pkg := range names {
			// The root pseudo-package anchors every user request and is
			// never removed.
			if pkg == rootPackageName {
				continue
			}
			entry, ok := se.storage.GetEntry(s, pkg)
			if !ok || entry.Element == nil || entry.Element.IsEmpty() {
				continue
			}
			ve := entry.Element
			// A package selected to satisfy a direct user request, soft or
			// hard, is still needed by that request.
			if !entry.IntroducedBy.Empty() && entry.IntroducedBy.Reason.Kind() == ReasonUser {
				continue
			}

			info, wasInstalled := se.cache.InstalledInfo(pkg)
			_ = info
			targetAuto := se.cache.IsAutomaticallyInstalled(pkg)

			switch se.oracle.IsAllowed(ve.Version, wasInstalled, targetAuto) {
			case AutoRemovalNo:
				continue
			case AutoRemovalYesIfNoReverseDependencies:
				if se.hasReverseDependency(s, ve) {
					continue
				}
			}

			candidate := se.storage.Fork(s, Action{
				Package:      pkg,
				NewElement:   se.graph.EmptyElement(pkg),
				IntroducedBy: IntroducedBy{Reason: NewAutoRemovalReason()},
			})
			if se.breaksHardRelation(candidate) {
				continue
			}

			s = candidate
			removedAny = true
		}

		if !removedAny {
			return s
		}
	}
}

// hasReverseDependency reports whether some other currently selected
// version still needs ve as the sole satisfier of one of its hard
// relations.
func (se *SearchEngine) hasReverseDependency(s *Solution, ve *Element) bool {
	for _, pred := range se.graph.Predecessors(ve) {
		if pred.Kind != RelationElementKind || pred.IsSoft() || pred.IsAnti() {
			continue
		}
		if se.storage.GetVersion(s, pred.Dependant.Package) != pred.Dependant {
			continue
		}

		coveredByOther := false
		for _, sat := range se.graph.Successors(pred) {
			if sat != ve && se.storage.GetVersion(s, sat.Package) == sat {
				coveredByOther = true
				break
			}
		}
		if !coveredByOther {
			return true
		}
	}
	return false
}

func (se *SearchEngine) breaksHardRelation(s *Solution) bool {
	for _, bs := range se.storage.BrokenSuccessors(s) {
		if !bs.Element.IsSoft() {
			return true
		}
	}
	return false
}

