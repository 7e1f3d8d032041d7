package resolver

// RelationKind identifies the nature of a dependency line. Anti-relations
// (Conflicts, Breaks) invert the edges the graph builder materializes: the
// dependant version conflicts with its satisfiers instead of requiring one.
type RelationKind uint8

const (
	PreDepends RelationKind = iota
	Depends
	Recommends
	Suggests
	Conflicts
	Breaks
)

func (k RelationKind) String() string {
	switch k {
	case PreDepends:
		return "pre-depends"
	case Depends:
		return "depends"
	case Recommends:
		return "recommends"
	case Suggests:
		return "suggests"
	case Conflicts:
		return "conflicts"
	case Breaks:
		return "breaks"
	default:
		return "unknown"
	}
}

// IsAnti reports whether the relation kind is a conflicts/breaks-style
// anti-relation.
func (k RelationKind) IsAnti() bool {
	return k == Conflicts || k == Breaks
}

// IsSoft reports whether failing to satisfy a relation of this kind merely
// costs score, rather than invalidating the solution.
func (k RelationKind) IsSoft() bool {
	return k == Recommends || k == Suggests
}

// hardPriority orders hard relation kinds for breakage priority, highest
// first: pre-depends > depends > conflicts > breaks.
func (k RelationKind) hardPriority() int {
	switch k {
	case PreDepends:
		return 4
	case Depends:
		return 3
	case Conflicts:
		return 2
	case Breaks:
		return 1
	default:
		return 0
	}
}

// RelationExpression is a single clause of a dependency line, e.g.
// "libfoo (>= 2.0)". It is opaque to the resolver core beyond its string
// form and kind; the Cache is solely responsible for parsing it and for
// resolving which versions satisfy it.
type RelationExpression struct {
	Kind       RelationKind
	Expression string
}

func (r RelationExpression) String() string {
	return r.Expression
}

// Importance ranks a user request's priority. Must is hard; Try and Wish are
// soft and only affect scoring when left unsatisfied.
type Importance int

const (
	Wish Importance = iota
	Try
	Must
)

func (imp Importance) String() string {
	switch imp {
	case Must:
		return "must"
	case Try:
		return "try"
	case Wish:
		return "wish"
	default:
		return "unknown"
	}
}
