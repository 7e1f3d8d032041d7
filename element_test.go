package resolver

import "testing"

func TestElementIsEmptyOnlyForNilVersion(t *testing.T) {
	empty := &Element{Kind: VersionElementKind, Package: "foo"}
	if !empty.IsEmpty() {
		t.Fatalf("expected the nil-Version element to report IsEmpty")
	}

	versioned := &Element{Kind: VersionElementKind, Package: "foo", Version: &Version{Package: "foo", VersionString: "1.0"}}
	if versioned.IsEmpty() {
		t.Fatalf("did not expect a concrete version to report IsEmpty")
	}
}

func TestElementIsAntiOnlyForConflictsBreaks(t *testing.T) {
	for _, kind := range []RelationKind{Conflicts, Breaks} {
		e := &Element{Kind: RelationElementKind, RelKind: kind}
		if !e.IsAnti() {
			t.Fatalf("%v should be IsAnti", kind)
		}
	}
	for _, kind := range []RelationKind{PreDepends, Depends, Recommends, Suggests} {
		e := &Element{Kind: RelationElementKind, RelKind: kind}
		if e.IsAnti() {
			t.Fatalf("%v should not be IsAnti", kind)
		}
	}
}

func TestElementIsSoftForRecommendsSuggests(t *testing.T) {
	for _, kind := range []RelationKind{Recommends, Suggests} {
		e := &Element{Kind: RelationElementKind, RelKind: kind}
		if !e.IsSoft() {
			t.Fatalf("%v should be IsSoft", kind)
		}
	}
	for _, kind := range []RelationKind{PreDepends, Depends, Conflicts, Breaks} {
		e := &Element{Kind: RelationElementKind, RelKind: kind}
		if e.IsSoft() {
			t.Fatalf("%v should not be IsSoft for an ordinary relation", kind)
		}
	}
}

func TestElementIsSoftForUserRequestByImportance(t *testing.T) {
	must := &Element{Kind: RelationElementKind, RelKind: Depends, IsUserRequest: true, UserImportance: Must}
	if must.IsSoft() {
		t.Fatalf("a Must user request must never be soft")
	}

	for _, imp := range []Importance{Try, Wish} {
		e := &Element{Kind: RelationElementKind, RelKind: Depends, IsUserRequest: true, UserImportance: imp}
		if !e.IsSoft() {
			t.Fatalf("a %v user request should be soft even over a Depends clause", imp)
		}
	}
}

func TestElementIsSoftFalseForVersionElement(t *testing.T) {
	ve := &Element{Kind: VersionElementKind, Package: "foo"}
	if ve.IsSoft() {
		t.Fatalf("a version element is never soft")
	}
}

func TestElementIsSoftForSyncElement(t *testing.T) {
	sync := &Element{Kind: SyncElementKind, SourceName: "libfoo-src", SourceVersionPin: "1.0"}
	if !sync.IsSoft() {
		t.Fatalf("a synchronization element should be soft (scored, not fatal)")
	}
}

func TestElementUnsatisfiableOnlyForRelationElements(t *testing.T) {
	ve := &Element{Kind: VersionElementKind, Package: "foo"}
	if ve.Unsatisfiable() {
		t.Fatalf("a version element is never Unsatisfiable")
	}

	rel := &Element{Kind: RelationElementKind, RelKind: Depends, unsatisfiable: true}
	if !rel.Unsatisfiable() {
		t.Fatalf("expected the relation element to report Unsatisfiable")
	}
}

func TestElementStringVariants(t *testing.T) {
	emptyVe := &Element{Kind: VersionElementKind, Package: "foo"}
	if got := emptyVe.String(); got != "foo <none>" {
		t.Fatalf("String() = %q, want %q", got, "foo <none>")
	}

	dependant := &Element{Kind: VersionElementKind, Package: "app", Version: &Version{Package: "app", VersionString: "1.0"}}
	rel := &Element{Kind: RelationElementKind, Dependant: dependant, RelKind: Depends, Clause: RelationExpression{Kind: Depends, Expression: "libfoo"}}
	if got := rel.String(); got != "app 1.0 depends libfoo" {
		t.Fatalf("String() = %q, want %q", got, "app 1.0 depends libfoo")
	}

	sync := &Element{Kind: SyncElementKind, SourceName: "libfoo-src", SourceVersionPin: "1.0"}
	if got := sync.String(); got != "sync(libfoo-src=1.0)" {
		t.Fatalf("String() = %q, want %q", got, "sync(libfoo-src=1.0)")
	}
}
