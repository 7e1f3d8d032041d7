package resolver

import "fmt"

// ReasonKind enumerates the small, closed set of reasons a selection can
// carry. Render reasons only through String(); nothing outside this file
// reaches into resolver internals to format one.
type ReasonKind uint8

const (
	ReasonUser ReasonKind = iota
	ReasonAutoRemoval
	ReasonDependencyOn
	ReasonSynchronizationWith
)

// Reason explains why one package ended up at the version a solution
// selected. Taken from the selection's own IntroducedBy back-pointer when a
// solution is handed to the caller; earlier links of the chain behind that
// selection are not followed.
type Reason struct {
	kind ReasonKind

	// Annotation carries the caller-supplied label for ReasonUser.
	Annotation string

	// Dependant and Expression describe the broken relation for
	// ReasonDependencyOn: Dependant depends on/conflicts with something
	// matching Expression via RelationOfKind.
	Dependant      *Version
	RelationOfKind RelationKind
	Expression     RelationExpression

	// SourceName/SourceVersion describe the sync partner for
	// ReasonSynchronizationWith.
	SourceName    string
	SourceVersion string
}

// Kind reports which reason variant r carries.
func (r Reason) Kind() ReasonKind { return r.kind }

// NewUserReason builds the reason attached to a directly requested package.
func NewUserReason(annotation string) Reason {
	return Reason{kind: ReasonUser, Annotation: annotation}
}

// NewAutoRemovalReason builds the reason attached to a package the engine
// removed because nothing needed it anymore.
func NewAutoRemovalReason() Reason {
	return Reason{kind: ReasonAutoRemoval}
}

// NewDependencyReason builds the reason attached to a selection forced by
// dependant's relation of kind relKind on expr.
func NewDependencyReason(dependant *Version, relKind RelationKind, expr RelationExpression) Reason {
	return Reason{kind: ReasonDependencyOn, Dependant: dependant, RelationOfKind: relKind, Expression: expr}
}

// NewSynchronizationReason builds the reason attached to a version pulled in
// to match the source version of sibling binaries.
func NewSynchronizationReason(sourceName, sourceVersion string) Reason {
	return Reason{kind: ReasonSynchronizationWith, SourceName: sourceName, SourceVersion: sourceVersion}
}

func (r Reason) String() string {
	switch r.kind {
	case ReasonUser:
		if r.Annotation != "" {
			return fmt.Sprintf("user request (%s)", r.Annotation)
		}
		return "user request"
	case ReasonAutoRemoval:
		return "no longer needed (auto-removal)"
	case ReasonDependencyOn:
		return fmt.Sprintf("%s %s %s", r.Dependant, r.RelationOfKind, r.Expression)
	case ReasonSynchronizationWith:
		return fmt.Sprintf("synchronization with %s=%s", r.SourceName, r.SourceVersion)
	default:
		return "unknown reason"
	}
}
