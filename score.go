package resolver

import (
	"fmt"
	"strings"
)

// subScoreKind indexes the exhaustive set of sub-score categories a
// transition can contribute to.
type subScoreKind int

const (
	subScoreVersion subScoreKind = iota
	subScoreNew
	subScoreRemoval
	subScoreRemovalOfEssential
	subScoreRemovalOfAuto
	subScoreUpgrade
	subScoreDowngrade
	subScorePositionPenalty
	subScoreUnsatisfiedRecommends
	subScoreUnsatisfiedSuggests
	subScoreFailedSync
	subScoreUnsatisfiedTry
	subScoreUnsatisfiedWish
	subScoreCount
)

var subScoreTag = [subScoreCount]string{
	subScoreVersion:               "v",
	subScoreNew:                   "a",
	subScoreRemoval:               "r",
	subScoreRemovalOfEssential:    "re",
	subScoreRemovalOfAuto:         "ra",
	subScoreUpgrade:               "u",
	subScoreDowngrade:             "d",
	subScorePositionPenalty:       "pp",
	subScoreUnsatisfiedRecommends: "ur",
	subScoreUnsatisfiedSuggests:   "us",
	subScoreFailedSync:            "fs",
	subScoreUnsatisfiedTry:        "ut",
	subScoreUnsatisfiedWish:       "uw",
}

// ScoreChange is the pure description of one transition's effect on score:
// a count per sub-score category, not yet weighted by configured
// multipliers. ScoreManager turns it into a signed delta.
type ScoreChange struct {
	sub [subScoreCount]int64
}

// SetPosition records the search depth at which this change occurs; the
// Score Manager applies the configured position-penalty multiplier to it.
func (c *ScoreChange) SetPosition(level int) {
	c.sub[subScorePositionPenalty] = int64(level)
}

func (c ScoreChange) String() string {
	var parts []string
	for i, n := range c.sub {
		if n == 0 {
			continue
		}
		if n == 1 {
			parts = append(parts, subScoreTag[i])
		} else {
			parts = append(parts, fmt.Sprintf("%d%s", n, subScoreTag[i]))
		}
	}
	return strings.Join(parts, "/")
}

// ScoreManager computes, deterministically, the score delta of a single
// (old element -> new element) transition, or of breaking a soft relation
// or synchronization constraint. It holds no solver state and no mutable
// global configuration: everything it needs comes from the Config and
// Cache it was built with.
type ScoreManager struct {
	cache             Cache
	multipliers       ScoreMultipliers
	versionFactors    VersionFactors
	qualityAdjustment int64
	defaultPin        int
}

// NewScoreManager builds a ScoreManager bound to cache and config.
func NewScoreManager(cache Cache, config *Config) *ScoreManager {
	return &ScoreManager{
		cache:             cache,
		multipliers:       config.ScoreMultipliers,
		versionFactors:    config.VersionFactors,
		qualityAdjustment: config.QualityAdjustment,
		defaultPin:        config.DefaultReleasePin,
	}
}

// GetVersionScoreChange returns the sub-scores attributable to replacing
// original with supposed for one package (either may be nil, meaning "no
// version" / "removed").
func (m *ScoreManager) GetVersionScoreChange(original, supposed *Version) ScoreChange {
	var c ScoreChange
	m.addVersionWeight(&c, original, supposed)
	m.addVersionClass(&c, original, supposed)
	return c
}

func (m *ScoreManager) addVersionWeight(c *ScoreChange, original, supposed *Version) {
	weightAndPin := func(v *Version, pinIfNil int) (weight int64, pin int64) {
		if v == nil {
			return 0, int64(pinIfNil)
		}
		p := int64(m.cache.Pin(v))
		return p - int64(m.defaultPin), p
	}

	origWeight, origPin := weightAndPin(original, 0)
	supWeight, supPin := weightAndPin(supposed, m.defaultPin)

	c.sub[subScoreVersion] = m.factoredVersionScore(supWeight-origWeight, supPin-origPin)
}

func (m *ScoreManager) factoredVersionScore(weightDiff, pinDiff int64) int64 {
	s := weightDiff
	applyFactor := func(factor int64) {
		s = s * factor / 100
	}
	if pinDiff < 0 {
		applyFactor(m.versionFactors.PriorityDowngrade)
	}
	applyFactor(m.versionFactors.Common)
	if s < 0 {
		applyFactor(m.versionFactors.Negative)
	}
	return s
}

func (m *ScoreManager) addVersionClass(c *ScoreChange, original, supposed *Version) {
	switch {
	case original == nil:
		c.sub[subScoreNew] = 1
	case supposed == nil:
		c.sub[subScoreRemoval] = 1
		if original.Essential {
			c.sub[subScoreRemovalOfEssential] = 1
		}
		if m.cache.IsAutomaticallyInstalled(original.Package) {
			c.sub[subScoreRemovalOfAuto] = 1
		}
	default:
		switch cmp := compareVersionStrings(original.VersionString, supposed.VersionString); {
		case cmp < 0:
			c.sub[subScoreUpgrade] = 1
		case cmp > 0:
			c.sub[subScoreDowngrade] = 1
		}
	}
}

// GetUnsatisfiedRecommendsScoreChange is the fixed per-broken-recommends
// sub-score.
func (m *ScoreManager) GetUnsatisfiedRecommendsScoreChange() ScoreChange {
	var c ScoreChange
	c.sub[subScoreUnsatisfiedRecommends] = 1
	return c
}

// GetUnsatisfiedSuggestsScoreChange is the fixed per-broken-suggests
// sub-score.
func (m *ScoreManager) GetUnsatisfiedSuggestsScoreChange() ScoreChange {
	var c ScoreChange
	c.sub[subScoreUnsatisfiedSuggests] = 1
	return c
}

// GetFailedSynchronizationScoreChange is the fixed per-violated-sync
// sub-score.
func (m *ScoreManager) GetFailedSynchronizationScoreChange() ScoreChange {
	var c ScoreChange
	c.sub[subScoreFailedSync] = 1
	return c
}

// GetUnsatisfiedUserRequestScoreChange is the fixed sub-score for an
// unsatisfied soft (try/wish) user request. Must requests are hard
// constraints and never contribute a score change here.
func (m *ScoreManager) GetUnsatisfiedUserRequestScoreChange(importance Importance) ScoreChange {
	var c ScoreChange
	switch importance {
	case Try:
		c.sub[subScoreUnsatisfiedTry] = 1
	case Wish:
		c.sub[subScoreUnsatisfiedWish] = 1
	}
	return c
}

// Value combines a ScoreChange's sub-scores via the configured multipliers
// into a single signed delta, plus the fixed quality-adjustment constant.
// The result is clamped to avoid overflow from repeated combination across
// a long search.
func (m *ScoreManager) Value(c ScoreChange) int64 {
	result := m.qualityAdjustment

	mult := [subScoreCount]int64{
		subScoreVersion:               1,
		subScoreNew:                   m.multipliers.New,
		subScoreRemoval:               m.multipliers.Removal,
		subScoreRemovalOfEssential:    m.multipliers.RemovalOfEssential,
		subScoreRemovalOfAuto:         m.multipliers.RemovalOfAuto,
		subScoreUpgrade:               m.multipliers.Upgrade,
		subScoreDowngrade:             m.multipliers.Downgrade,
		subScorePositionPenalty:       m.multipliers.PositionPenalty,
		subScoreUnsatisfiedRecommends: m.multipliers.UnsatisfiedRecommends,
		subScoreUnsatisfiedSuggests:   m.multipliers.UnsatisfiedSuggests,
		subScoreFailedSync:            m.multipliers.FailedSynchronization,
		subScoreUnsatisfiedTry:        m.multipliers.UnsatisfiedTry,
		subScoreUnsatisfiedWish:       m.multipliers.UnsatisfiedWish,
	}

	for i, n := range c.sub {
		result += n * mult[i]
	}

	return clampScore(result)
}

const (
	scoreClampMax = int64(1) << 40
	scoreClampMin = -scoreClampMax
)

// clampScore keeps running score totals within a fixed range so that a long
// search cannot overflow ssize_t-equivalent arithmetic; per spec.md §7,
// scoring anomalies are clamped rather than surfaced as errors.
func clampScore(v int64) int64 {
	if v > scoreClampMax {
		return scoreClampMax
	}
	if v < scoreClampMin {
		return scoreClampMin
	}
	return v
}
