package resolver

import (
	"strings"

	"github.com/Masterminds/semver"
)

// compareVersionStrings orders two Debian-style version strings, returning a
// negative number if a < b, zero if equal, and positive if a > b. When both
// strings parse as semver (the common case for modern package ecosystems),
// semver-aware comparison is used so that e.g. "10.0.0-rc1" outranks "2.0.0",
// which a lexical comparison would order the other way; otherwise the
// comparison falls back to a lexical ordering, which is what cupt's original
// compareversions.cpp does as a last resort for malformed input.
func compareVersionStrings(a, b string) int {
	if a == b {
		return 0
	}

	av, aerr := semver.NewVersion(a)
	bv, berr := semver.NewVersion(b)
	if aerr == nil && berr == nil {
		return av.Compare(bv)
	}

	return strings.Compare(a, b)
}
