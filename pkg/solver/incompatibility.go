package solver

import "strings"

// CauseKind tags why an Incompatibility exists.
type CauseKind int

const (
	// CauseRoot tags an incompatibility about the root package itself. The
	// solver does not create one: resolvents, including the complete-failure
	// one (IsCompleteFailure), carry CauseConflict, and root itself is
	// enforced by a direct decision at solve start rather
	// than by keeping a live {¬root@any} clause in the store — see
	// solveFrom.
	CauseRoot CauseKind = iota
	// CauseDependency marks an incompatibility derived from a package
	// version's declared dependency on another package.
	CauseDependency
	// CauseNoVersions marks an incompatibility registered because no
	// version of a package matched the term the decision step asked for.
	// A dedicated variant per §9, not mislabeled CauseRoot as the original
	// source did.
	CauseNoVersions
	// CauseConflict marks an incompatibility derived from two parents
	// during conflict resolution.
	CauseConflict
)

// Cause is a sum type: exactly one of its fields is meaningful, selected by Kind.
type Cause struct {
	Kind CauseKind
	// Package names the dependency/no-versions subject. Empty for Root/Conflict.
	Package string
	// Left/Right name the two parent incompatibilities when Kind == CauseConflict.
	Left, Right *Incompatibility
}

func (c Cause) IsConflict() bool { return c.Kind == CauseConflict }

// Incompatibility is a non-empty set of terms declared jointly unsatisfiable.
type Incompatibility struct {
	Terms []Term
	Cause Cause
	id    int
}

var incompatibilitySeq int

// NewIncompatibility validates non-emptiness and assigns the incompatibility
// a stable id used for hashing/equality and for the reporter's line numbers.
func NewIncompatibility(terms []Term, cause Cause) *Incompatibility {
	if len(terms) == 0 {
		panic("solver: incompatibility must have at least one term")
	}
	incompatibilitySeq++
	return &Incompatibility{Terms: normalizeTerms(terms), Cause: cause, id: incompatibilitySeq}
}

// normalizeTerms merges terms that refer to the same package by intersecting
// them, per §3's invariant that terms conceptually refer to distinct packages.
func normalizeTerms(terms []Term) []Term {
	byPkg := make(map[string]int, len(terms))
	out := make([]Term, 0, len(terms))
	for _, t := range terms {
		if idx, ok := byPkg[t.Package]; ok {
			if merged, ok := out[idx].Intersect(t); ok {
				out[idx] = merged
				continue
			}
		}
		byPkg[t.Package] = len(out)
		out = append(out, t)
	}
	return out
}

func (i *Incompatibility) ID() int { return i.id }

func (i *Incompatibility) String() string {
	parts := make([]string, len(i.Terms))
	for j, t := range i.Terms {
		parts[j] = t.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// IsCompleteFailure reports whether the incompatibility's term set is empty
// or its only term positively refers to root — the condition conflict
// resolution treats as an unresolvable failure.
func (i *Incompatibility) IsCompleteFailure(root string) bool {
	if len(i.Terms) == 0 {
		return true
	}
	if len(i.Terms) == 1 && i.Terms[0].Package == root && i.Terms[0].Positive {
		return true
	}
	return false
}

// IsSingleLine reports whether at least one of the conflict's two parents is
// not itself derived from a conflict — used only by the reporter (§4.5).
func (c Cause) IsSingleLine() bool {
	if c.Kind != CauseConflict {
		return false
	}
	return !c.Left.Cause.IsConflict() || !c.Right.Cause.IsConflict()
}

// dependencyIncompatibility encodes "from@fromVersion requires dep@depReq" as
// the forbidden conjunction of its negation: from is at that exact version
// AND dep is not within depReq. Canonical PubGrub form (positive cause,
// negative effect) — matches the root incompatibility's {¬root@any} shape
// read the other way: the positive side is what's already fixed, the
// negative side is what propagation is meant to rule out.
func dependencyIncompatibility(from string, fromVersion Version, dep string, depReq Requirement) *Incompatibility {
	return NewIncompatibility([]Term{
		PositiveTerm(from, VersionSetReq(ExactSet(fromVersion))),
		NegativeTerm(dep, depReq),
	}, Cause{Kind: CauseDependency, Package: from})
}

func noVersionsIncompatibility(pkg string, req Requirement) *Incompatibility {
	return NewIncompatibility([]Term{PositiveTerm(pkg, req)}, Cause{Kind: CauseNoVersions, Package: pkg})
}

func conflictIncompatibility(terms []Term, left, right *Incompatibility) *Incompatibility {
	return NewIncompatibility(terms, Cause{Kind: CauseConflict, Left: left, Right: right})
}
