package resolver

import "time"

// ScoreMultipliers holds the per-category weights the Score Manager applies
// to each sub-score before summing them into a total score delta. Names and
// defaults mirror cupt's "cupt::resolver::score::*" options.
type ScoreMultipliers struct {
	New                    int64
	Removal                int64
	RemovalOfEssential     int64
	RemovalOfAuto          int64
	Upgrade                int64
	Downgrade              int64
	PositionPenalty        int64
	UnsatisfiedRecommends  int64
	UnsatisfiedSuggests    int64
	FailedSynchronization  int64
	UnsatisfiedTry         int64
	UnsatisfiedWish        int64
}

// DefaultScoreMultipliers returns the multipliers cupt ships by default.
func DefaultScoreMultipliers() ScoreMultipliers {
	return ScoreMultipliers{
		New:                   1,
		Removal:               -400,
		RemovalOfEssential:    -20000,
		RemovalOfAuto:         50,
		Upgrade:               1,
		Downgrade:             -1000,
		PositionPenalty:       -100,
		UnsatisfiedRecommends: -200,
		UnsatisfiedSuggests:   -50,
		FailedSynchronization: -100,
		UnsatisfiedTry:        -1000,
		UnsatisfiedWish:       -1,
	}
}

// VersionFactors scale the raw pin-weight delta between an old and a new
// version before it is added into the Version sub-score. "Common" always
// applies; "Negative" applies an additional scaling when the resulting
// score is negative; "PriorityDowngrade" applies when the new version's pin
// is lower than the old one's, regardless of sign.
type VersionFactors struct {
	Common            int64
	Negative          int64
	PriorityDowngrade int64
}

// DefaultVersionFactors returns cupt's default version-factor family.
func DefaultVersionFactors() VersionFactors {
	return VersionFactors{
		Common:            100,
		Negative:          100,
		PriorityDowngrade: 100,
	}
}

// Config is the full set of tunables the resolver core consults. It is
// always passed explicitly into constructors; the core never reads global
// or package-level mutable state.
type Config struct {
	ScoreMultipliers ScoreMultipliers
	VersionFactors   VersionFactors

	// QualityAdjustment is a fixed constant added to every score change. It
	// is the "policy dial" that controls how eagerly the engine backtracks:
	// a higher value makes exploring alternatives look more attractive
	// relative to the branch currently in hand.
	QualityAdjustment int64

	// NeverAutoRemove lists anchored regular expressions; a package whose
	// name matches one is never a candidate for automatic removal.
	NeverAutoRemove []string

	// NoAutoRemoveIfRDepends lists anchored regular expressions; a package
	// whose name matches one may only be auto-removed if no other selected
	// package depends on it.
	NoAutoRemoveIfRDepends []string

	// AutoRemoveEnabled is the master switch for the auto-removal pass.
	AutoRemoveEnabled bool

	// SynchronizeSourceVersions is the master switch for the
	// same-source-version synchronization pass.
	SynchronizeSourceVersions bool

	// MaxIterations bounds the number of frontier-pop iterations the search
	// engine will perform before surfacing a resource-exhaustion failure.
	// Zero means unbounded.
	MaxIterations int

	// MaxResolveTime bounds wall-clock time spent in a single resolve call.
	// Zero means unbounded.
	MaxResolveTime time.Duration

	// DefaultReleasePin is the pin assigned to a hypothetical version when
	// none is specified, used as the baseline for version-weight deltas.
	DefaultReleasePin int

	// Trace enables verbose structured trace logging of the search.
	Trace bool
}

// DefaultConfig returns a Config with cupt's stock defaults.
func DefaultConfig() Config {
	return Config{
		ScoreMultipliers:          DefaultScoreMultipliers(),
		VersionFactors:            DefaultVersionFactors(),
		QualityAdjustment:         0,
		AutoRemoveEnabled:         true,
		SynchronizeSourceVersions: false,
		DefaultReleasePin:         500,
	}
}
