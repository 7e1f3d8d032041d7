package resolver

// This file holds small fixture-building helpers shared by every test in
// the package, in the spirit of golang-dep's bestiary_test.go: terse
// constructors that panic on malformed test data rather than returning an
// error, since a broken fixture is a bug in the test itself.

// memCache is a trivial in-memory Cache good enough to drive the resolver
// core end to end in tests. It resolves a RelationExpression by treating
// its Expression as "name" or "name op version" and matching literally;
// that is enough to express the dependency graphs these tests build.
type memCache struct {
	packages  map[string]*Package
	installed map[string]InstalledInfo
	pins      map[string]int
	auto      map[string]bool
}

func newMemCache() *memCache {
	return &memCache{
		packages:  make(map[string]*Package),
		installed: make(map[string]InstalledInfo),
		pins:      make(map[string]int),
		auto:      make(map[string]bool),
	}
}

// addVersion registers version v of pkg, creating the Package record if
// this is its first version.
func (c *memCache) addVersion(v *Version) {
	pkg, ok := c.packages[v.Package]
	if !ok {
		pkg = &Package{Name: v.Package}
		c.packages[v.Package] = pkg
	}
	pkg.Versions = append(pkg.Versions, v)
}

// install marks pkg's given version string as currently installed.
func (c *memCache) install(pkgName, versionString string, auto bool) {
	pkg := c.packages[pkgName]
	var found *Version
	for _, v := range pkg.Versions {
		if v.VersionString == versionString {
			found = v
			break
		}
	}
	if found == nil {
		panic("install: no such version " + versionString + " of " + pkgName)
	}
	pkg.InstalledVersion = found
	c.installed[pkgName] = InstalledInfo{
		Status:           "installed",
		AutoInstalled:    auto,
		InstalledVersion: found,
	}
	c.auto[pkgName] = auto
}

func (c *memCache) BinaryPackageNames() []string {
	var names []string
	for n := range c.packages {
		names = append(names, n)
	}
	return names
}

func (c *memCache) BinaryPackage(name string) *Package {
	return c.packages[name]
}

// SatisfyingVersions treats expr.Expression as a bare package name: every
// version of that package satisfies it. Tests needing a narrower relation
// (">= 2.0") build separate package versions and depend on the package
// name alone, which keeps the fixture code simple without needing a real
// version-constraint parser.
func (c *memCache) SatisfyingVersions(expr RelationExpression) []*Version {
	pkg, ok := c.packages[expr.Expression]
	if !ok {
		return nil
	}
	out := make([]*Version, len(pkg.Versions))
	copy(out, pkg.Versions)
	return out
}

func (c *memCache) Pin(v *Version) int {
	if p, ok := c.pins[v.Package+"="+v.VersionString]; ok {
		return p
	}
	return 500
}

func (c *memCache) IsAutomaticallyInstalled(packageName string) bool {
	return c.auto[packageName]
}

func (c *memCache) InstalledPackageNames() []string {
	var names []string
	for n := range c.installed {
		names = append(names, n)
	}
	return names
}

func (c *memCache) InstalledInfo(name string) (InstalledInfo, bool) {
	info, ok := c.installed[name]
	return info, ok
}

// pkgv builds a Version with no relations.
func pkgv(name, version string) *Version {
	return &Version{Package: name, VersionString: version, Relations: make(map[RelationKind][]RelationExpression)}
}

// depends attaches a Depends clause naming target to v.
func depends(v *Version, target string) *Version {
	v.Relations[Depends] = append(v.Relations[Depends], RelationExpression{Kind: Depends, Expression: target})
	return v
}

// conflicts attaches a Conflicts clause naming target to v.
func conflicts(v *Version, target string) *Version {
	v.Relations[Conflicts] = append(v.Relations[Conflicts], RelationExpression{Kind: Conflicts, Expression: target})
	return v
}

// recommends attaches a Recommends clause naming target to v.
func recommends(v *Version, target string) *Version {
	v.Relations[Recommends] = append(v.Relations[Recommends], RelationExpression{Kind: Recommends, Expression: target})
	return v
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.MaxIterations = 10000
	return &cfg
}
