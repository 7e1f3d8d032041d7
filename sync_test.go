package resolver

import (
	"context"
	"testing"
)

// TestSyncElementSuccessorsIncludeMatchingSiblingsAndEmpty exercises
// GetOrCreateSyncElement directly: its successor set must offer every
// sibling package's empty choice plus whichever of its versions carries
// the pinned source version, and nothing else.
func TestSyncElementSuccessorsIncludeMatchingSiblingsAndEmpty(t *testing.T) {
	cache := newMemCache()
	cache.addVersion(&Version{Package: "liba-bin", VersionString: "1.0", SourceName: "libsrc", SourceVersion: "1.0", Relations: map[RelationKind][]RelationExpression{}})
	cache.addVersion(&Version{Package: "libb-bin", VersionString: "1.0", SourceName: "libsrc", SourceVersion: "0.9", Relations: map[RelationKind][]RelationExpression{}})
	cache.addVersion(&Version{Package: "libb-bin", VersionString: "2.0", SourceName: "libsrc", SourceVersion: "1.0", Relations: map[RelationKind][]RelationExpression{}})
	cache.addVersion(&Version{Package: "unrelated", VersionString: "1.0", SourceName: "othersrc", SourceVersion: "1.0", Relations: map[RelationKind][]RelationExpression{}})

	cfg := testConfig()
	cfg.SynchronizeSourceVersions = true
	g := NewDependencyGraph(cache, cfg)

	sync := g.GetOrCreateSyncElement("libsrc", "1.0")
	succ := g.Successors(sync)

	var gotLibaEmpty, gotLibbEmpty, gotLibb20, gotLibb10 bool
	for _, e := range succ {
		switch {
		case e.Package == "liba-bin" && e.IsEmpty():
			gotLibaEmpty = true
		case e.Package == "libb-bin" && e.IsEmpty():
			gotLibbEmpty = true
		case e.Package == "libb-bin" && e.Version != nil && e.Version.VersionString == "2.0":
			gotLibb20 = true
		case e.Package == "libb-bin" && e.Version != nil && e.Version.VersionString == "1.0":
			gotLibb10 = true
		case e.Package == "unrelated":
			t.Fatalf("sync successors must not include packages from another source: %s", e)
		}
	}
	if !gotLibaEmpty {
		t.Fatalf("expected liba-bin's empty element among safe successors")
	}
	if !gotLibbEmpty {
		t.Fatalf("expected libb-bin's empty element among safe successors")
	}
	if !gotLibb20 {
		t.Fatalf("expected libb-bin 2.0 (matching source version 1.0) among safe successors")
	}
	if gotLibb10 {
		t.Fatalf("libb-bin 1.0 carries source version 0.9 and must not be a safe successor")
	}
}

// TestResolverSynchronizationPullsMismatchedSiblingForward exercises the
// full corrective pass end to end: liba-bin and libb-bin share a source;
// libb-bin is installed at a stale source version while liba-bin already
// carries the newer one. With synchronization enabled the resolver should
// pull libb-bin forward to restore agreement rather than merely scoring
// the mismatch.
func TestResolverSynchronizationPullsMismatchedSiblingForward(t *testing.T) {
	cache := newMemCache()
	cache.addVersion(&Version{Package: "liba-bin", VersionString: "2.0", SourceName: "libsrc", SourceVersion: "2.0", Relations: map[RelationKind][]RelationExpression{}})
	cache.install("liba-bin", "2.0", false)

	cache.addVersion(&Version{Package: "libb-bin", VersionString: "1.0", SourceName: "libsrc", SourceVersion: "1.0", Relations: map[RelationKind][]RelationExpression{}})
	cache.addVersion(&Version{Package: "libb-bin", VersionString: "2.0", SourceName: "libsrc", SourceVersion: "2.0", Relations: map[RelationKind][]RelationExpression{}})
	cache.install("libb-bin", "1.0", false)

	cfg := testConfig()
	cfg.SynchronizeSourceVersions = true
	r := NewResolver(cache, cfg)

	suggested, err := r.Resolve(context.Background(), func(SuggestedPackageMap) CallbackResponse {
		return Accept
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	entry, ok := suggested["libb-bin"]
	if !ok {
		t.Fatalf("expected libb-bin to be pulled to a new version, got no suggestion: %+v", suggested)
	}
	if entry.Version == nil || entry.Version.VersionString != "2.0" {
		t.Fatalf("expected libb-bin pulled to 2.0 to match liba-bin's source version, got %v", entry.Version)
	}

	foundSyncReason := false
	for _, reason := range entry.Reasons {
		if reason.Kind() == ReasonSynchronizationWith {
			foundSyncReason = true
		}
	}
	if !foundSyncReason {
		t.Fatalf("expected a synchronization reason attached to libb-bin's move, got %+v", entry.Reasons)
	}
}
