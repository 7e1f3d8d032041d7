package resolver

import "context"

// rootPackageName names the synthetic pseudo-package that anchors every
// direct user request (install, remove, upgrade, satisfy) as a relation
// element hanging off one version element. This unifies user requests with
// ordinary dependency lines: both are just relation elements competing for
// the Search Engine's attention through the same breakage-priority and
// repair machinery. The name is chosen so it can never collide with a real
// Debian package name, which is restricted to lowercase alphanumerics and
// a small set of punctuation.
const rootPackageName = "\x00root"

// CallbackResponse tells Resolve how to proceed after one proposed
// solution has been shown to the caller.
type CallbackResponse int

const (
	// Accept stops the search and Resolve returns this solution.
	Accept CallbackResponse = iota
	// Decline keeps this solution's score as a lower bound for pruning and
	// resumes the search for the next-best alternative.
	Decline
	// Abandon stops the search immediately; Resolve returns a DeclinedError.
	Abandon
)

// SuggestedEntry describes one package's proposed outcome.
type SuggestedEntry struct {
	Package string
	// Version is nil when the suggestion is to remove the package.
	Version *Version
	// ManuallySelected reports whether this outcome is pinned by a hard
	// (must-importance) direct user request, as opposed to being something
	// the engine chose and could have chosen differently.
	ManuallySelected bool
	Reasons          []Reason
}

// SuggestedPackageMap is the proposed change set handed to the caller's
// callback and returned from a successful Resolve, keyed by package name.
// Only packages whose suggested outcome differs from what is currently
// installed are present.
type SuggestedPackageMap map[string]SuggestedEntry

// Resolver is the public entry point: it accumulates direct user requests
// against a Cache snapshot, then searches for a consistent target package
// set satisfying them. A Resolver is not safe for concurrent use; build one
// resolve's worth of requests, call Resolve once, and discard it.
type Resolver struct {
	cache   Cache
	flags   *autoFlagCache
	config  *Config
	graph   *DependencyGraph
	storage *SolutionStorage
	scorer  *ScoreManager
	oracle  *AutoRemovalOracle
	engine  *SearchEngine

	root     *Element
	requests int
}

// autoFlagCache lets SetAutomaticallyInstalledFlag override the
// auto-installed bit for a resolve without requiring Cache itself to be
// mutable — the rest of the resolver core only ever sees the Cache
// interface, never this concrete type.
type autoFlagCache struct {
	Cache
	overrides map[string]bool
}

func (c *autoFlagCache) IsAutomaticallyInstalled(name string) bool {
	if v, ok := c.overrides[name]; ok {
		return v
	}
	return c.Cache.IsAutomaticallyInstalled(name)
}

// NewResolver builds a Resolver bound to cache and config. config is copied
// by reference and must not be mutated for the lifetime of the Resolver.
func NewResolver(cache Cache, config *Config) *Resolver {
	flags := &autoFlagCache{Cache: cache, overrides: make(map[string]bool)}

	graph := NewDependencyGraph(flags, config)
	storage := NewSolutionStorage(graph, breakagePriority)
	scorer := NewScoreManager(flags, config)
	oracle := NewAutoRemovalOracle(config)
	engine := NewSearchEngine(flags, config, graph, storage, scorer, oracle)

	rootVersion := &Version{Package: rootPackageName, VersionString: "0"}
	root := graph.GetOrCreateVersionElement(rootPackageName, rootVersion)
	graph.MarkUnfolded(root)

	return &Resolver{
		cache:   flags,
		flags:   flags,
		config:  config,
		graph:   graph,
		storage: storage,
		scorer:  scorer,
		oracle:  oracle,
		engine:  engine,
		root:    root,
	}
}

// SetAutomaticallyInstalledFlag overrides the auto-installed bit the Cache
// reports for packageName for the remainder of this resolve.
func (r *Resolver) SetAutomaticallyInstalledFlag(packageName string, value bool) {
	r.flags.overrides[packageName] = value
}

// SatisfyRelationExpression registers a direct top-level request that expr
// be satisfied (or, if invert is true, that no version matching expr be
// selected), with the given importance. annotation is a human-readable
// label surfaced in the reason for any package this request ends up
// selecting or removing.
func (r *Resolver) SatisfyRelationExpression(expr RelationExpression, invert bool, annotation string, importance Importance) error {
	if expr.Expression == "" {
		return &InvalidRequestError{Detail: "empty relation expression"}
	}
	kind := Depends
	if invert {
		kind = Conflicts
	}
	clause := RelationExpression{Kind: kind, Expression: expr.Expression}
	rel := r.graph.GetOrCreateUserRequestElement(r.root, kind, clause, importance, annotation)
	r.graph.AddRootSuccessor(r.root, rel)
	r.requests++
	return nil
}

// InstallVersion registers a direct request to select exactly version of
// packageName.
func (r *Resolver) InstallVersion(packageName string, version *Version, importance Importance, annotation string) error {
	if version == nil {
		return &InvalidRequestError{Detail: "InstallVersion requires a non-nil version"}
	}
	ve := r.graph.GetOrCreateVersionElement(packageName, version)
	label := "install " + ve.String()
	rel := r.graph.GetOrCreateDirectRelationElement(r.root, Depends, label, ve, importance, annotation)
	r.graph.AddRootSuccessor(r.root, rel)
	r.requests++
	return nil
}

// RemoveVersions registers a direct request that packageName be absent
// from the target set.
func (r *Resolver) RemoveVersions(packageName string, importance Importance, annotation string) error {
	if packageName == "" {
		return &InvalidRequestError{Detail: "empty package name"}
	}
	empty := r.graph.EmptyElement(packageName)
	label := "remove " + packageName
	rel := r.graph.GetOrCreateDirectRelationElement(r.root, Depends, label, empty, importance, annotation)
	r.graph.AddRootSuccessor(r.root, rel)
	r.requests++
	return nil
}

// Upgrade registers a soft (wish-importance) request, for every currently
// installed package, to move to some version newer than the one installed.
// Because the request is soft, the engine takes it only when the resulting
// score is better than leaving the package alone.
func (r *Resolver) Upgrade() error {
	for _, pkg := range r.cache.InstalledPackageNames() {
		info, ok := r.cache.InstalledInfo(pkg)
		if !ok || info.InstalledVersion == nil {
			continue
		}

		label := "upgrade " + pkg
		clause := RelationExpression{Kind: Depends, Expression: label}
		rel := r.graph.GetOrCreateUserRequestElement(r.root, Depends, clause, Wish, "upgrade")

		var newer []*Element
		if meta := r.cache.BinaryPackage(pkg); meta != nil {
			for _, v := range meta.Versions {
				if compareVersionStrings(v.VersionString, info.InstalledVersion.VersionString) > 0 {
					newer = append(newer, r.graph.GetOrCreateVersionElement(pkg, v))
				}
			}
		}
		r.graph.SetDirectSuccessors(rel, newer)
		r.graph.AddRootSuccessor(r.root, rel)
		r.requests++
	}
	return nil
}

// Resolve searches for a package set satisfying every request registered
// so far. onSuggestion is called with each candidate solution, highest
// scoring first; its response determines whether the search stops (Accept,
// Abandon) or continues to the next-best alternative (Decline). If every
// candidate is declined and the search space is exhausted, or no candidate
// is ever found, Resolve returns a *NoSolutionError; if onSuggestion
// abandons, Resolve returns a *DeclinedError.
func (r *Resolver) Resolve(ctx context.Context, onSuggestion func(SuggestedPackageMap) CallbackResponse) (SuggestedPackageMap, error) {
	initial := map[string]*Element{rootPackageName: r.root}
	for _, pkg := range r.cache.InstalledPackageNames() {
		info, ok := r.cache.InstalledInfo(pkg)
		if !ok || info.InstalledVersion == nil {
			continue
		}
		initial[pkg] = r.graph.GetOrCreateVersionElement(pkg, info.InstalledVersion)
	}

	start := r.storage.CreateInitial(initial)

	solution, err := r.engine.Run(ctx, start, func(s *Solution) (accept bool, abandon bool) {
		switch onSuggestion(r.buildSuggestedMap(s)) {
		case Accept:
			return true, false
		case Abandon:
			return false, true
		default:
			return false, false
		}
	})
	if err != nil {
		return nil, err
	}
	return r.buildSuggestedMap(solution), nil
}

func (r *Resolver) buildSuggestedMap(s *Solution) SuggestedPackageMap {
	out := make(SuggestedPackageMap)
	r.storage.ForEachModifiedPackage(s, func(pkg string, entry PackageEntry) {
		if pkg == rootPackageName {
			return
		}
		out[pkg] = SuggestedEntry{
			Package:          pkg,
			Version:          versionOf(entry.Element),
			ManuallySelected: entry.Sticked,
			Reasons:          r.reasonsFor(entry),
		}
	})
	return out
}

func (r *Resolver) reasonsFor(entry PackageEntry) []Reason {
	ib := entry.IntroducedBy
	if ib.Empty() && ib.Reason.Kind() != ReasonAutoRemoval {
		return nil
	}
	return []Reason{ib.Reason}
}
