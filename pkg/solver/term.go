package solver

import "fmt"

// Term is (package, requirement, polarity): a positive term asserts that the
// chosen version of Package lies in Req; a negative term asserts it does not.
type Term struct {
	Package  string
	Req      Requirement
	Positive bool
}

func PositiveTerm(pkg string, req Requirement) Term { return Term{pkg, req, true} }
func NegativeTerm(pkg string, req Requirement) Term { return Term{pkg, req, false} }

func (t Term) String() string {
	if t.Positive {
		return fmt.Sprintf("%s %s", t.Package, t.Req)
	}
	return fmt.Sprintf("not %s %s", t.Package, t.Req)
}

// Inverse flips polarity only.
func (t Term) Inverse() Term {
	return Term{t.Package, t.Req, !t.Positive}
}

// IsSatisfiedBy reports whether a concrete version choice makes the term
// true. Defined only for positive version-set terms.
func (t Term) IsSatisfiedBy(v Version) bool {
	if !t.Positive || !t.Req.IsVersionSet() {
		return false
	}
	return t.Req.Set().Contains(v)
}

// Satisfies reports whether self being true forces other to be true. False
// when the two terms refer to different packages.
func (t Term) Satisfies(o Term) bool {
	if t.Package != o.Package {
		return false
	}
	if t.Req.kind != o.Req.kind {
		return false
	}
	switch t.Req.kind {
	case reqRevision:
		return t.Req.revision == o.Req.revision
	case reqUnversioned:
		return false
	case reqVersionSet:
		return versionSetSatisfies(t.Req.set, t.Positive, o.Req.set, o.Positive)
	}
	return false
}

// versionSetSatisfies implements the §4.1 lattice for a term with set s/pol
// satisfying a term with set o/opol over the same package.
func versionSetSatisfies(s VersionSet, pol bool, o VersionSet, opol bool) bool {
	same := pol == opol
	switch {
	case s.IsEmpty() || o.IsEmpty():
		return !same
	case s.IsAny() || o.IsAny():
		return same
	case s.IsExact() && o.IsExact():
		return s.Exact().Equal(o.Exact()) && same
	case s.IsExact() && o.IsRange():
		return o.Contains(s.Exact()) == same
	case s.IsRange() && o.IsExact():
		return s.Contains(o.Exact()) == same
	case s.IsRange() && o.IsRange():
		aLo, aHi := s.Bounds()
		bLo, bHi := o.Bounds()
		equalRanges := aLo.Equal(bLo) && hiEqual(aHi, bHi)
		c := equalRanges || rangeContainsRange(aLo, aHi, bLo, bHi) || rangeContainsRange(bLo, bHi, aLo, aHi)
		return c == same
	}
	return false
}

func hiEqual(a, b *Version) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Intersect returns the strongest term implied by both self and other, or
// ok=false when undefined (different packages, non-versionSet requirement,
// or a logically impossible / unrepresentable combination).
func (t Term) Intersect(o Term) (Term, bool) {
	if t.Package != o.Package {
		return Term{}, false
	}
	if !t.Req.IsVersionSet() || !o.Req.IsVersionSet() {
		return Term{}, false
	}
	s, os := t.Req.Set(), o.Req.Set()
	switch {
	case t.Positive && o.Positive:
		r := s.Intersect(os)
		if r.IsEmpty() {
			return Term{}, false
		}
		return PositiveTerm(t.Package, VersionSetReq(r)), true
	case !t.Positive && !o.Positive:
		u, ok := s.Union(os)
		if !ok {
			return Term{}, false
		}
		return NegativeTerm(t.Package, VersionSetReq(u)), true
	default:
		pos, neg := t, o
		if !t.Positive {
			pos, neg = o, t
		}
		d, ok := pos.Req.Set().Difference(neg.Req.Set())
		if !ok || d.IsEmpty() {
			return Term{}, false
		}
		return PositiveTerm(t.Package, VersionSetReq(d)), true
	}
}

// Difference is intersect(self, other.inverse).
func (t Term) Difference(o Term) (Term, bool) {
	return t.Intersect(o.Inverse())
}

// IsValidDecision reports whether deciding self now would be consistent: no
// prior assignment for this package is itself a decision, and every prior
// assignment's term is satisfied by self.
func (t Term) IsValidDecision(ps *PartialSolution) bool {
	for _, a := range ps.Assignments {
		if a.Term.Package != t.Package {
			continue
		}
		if a.IsDecision {
			return false
		}
		if !t.Satisfies(a.Term) {
			return false
		}
	}
	return true
}
