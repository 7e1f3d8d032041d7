package resolver

import "regexp"

// AutoRemovalAllow is the three-valued answer the Auto-Removal Oracle gives
// for one package.
type AutoRemovalAllow int

const (
	AutoRemovalNo AutoRemovalAllow = iota
	AutoRemovalYes
	AutoRemovalYesIfNoReverseDependencies
)

// AutoRemovalOracle decides whether a package that nothing needs anymore
// may be dropped from a solution. It holds only compiled patterns and the
// master switch; all decisions are pure functions of its inputs.
type AutoRemovalOracle struct {
	enabled      bool
	never        []*regexp.Regexp
	noIfRDepends []*regexp.Regexp
}

// NewAutoRemovalOracle compiles config's anchored patterns. A pattern that
// fails to compile is dropped silently from its list — the patterns come
// from trusted local configuration, not user-supplied relation expressions,
// so a malformed one is treated the same as "absent" rather than fatal.
func NewAutoRemovalOracle(config *Config) *AutoRemovalOracle {
	o := &AutoRemovalOracle{enabled: config.AutoRemoveEnabled}
	o.never = compileAnchored(config.NeverAutoRemove)
	o.noIfRDepends = compileAnchored(config.NoAutoRemoveIfRDepends)
	return o
}

func compileAnchored(patterns []string) []*regexp.Regexp {
	var out []*regexp.Regexp
	for _, p := range patterns {
		anchored := "^(?:" + p + ")$"
		if re, err := regexp.Compile(anchored); err == nil {
			out = append(out, re)
		}
	}
	return out
}

func matchesAny(name string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// IsAllowed implements the ordered rule set of spec.md §4.D: essential
// always wins, then "was installed and not auto" wins, then the
// never-auto-remove patterns, then the guarded-by-reverse-dependency
// patterns; anything left over may be removed freely.
func (o *AutoRemovalOracle) IsAllowed(version *Version, wasInstalledBefore, targetAutoInstalled bool) AutoRemovalAllow {
	if version != nil && version.Essential {
		return AutoRemovalNo
	}

	canAutoRemove := o.enabled && targetAutoInstalled
	if wasInstalledBefore && !canAutoRemove {
		return AutoRemovalNo
	}

	name := ""
	if version != nil {
		name = version.Package
	}
	if matchesAny(name, o.never) {
		return AutoRemovalNo
	}
	if matchesAny(name, o.noIfRDepends) {
		return AutoRemovalYesIfNoReverseDependencies
	}

	return AutoRemovalYes
}
