package solver

import "fmt"

type setKind int

const (
	setEmpty setKind = iota
	setAny
	setExact
	setRange
)

// VersionSet is the tagged union {empty, any, exact(v), range[lo, hi)}.
// A nil Hi means unbounded above.
type VersionSet struct {
	kind  setKind
	exact Version
	lo    Version
	hi    *Version
}

func EmptySet() VersionSet { return VersionSet{kind: setEmpty} }
func AnySet() VersionSet   { return VersionSet{kind: setAny} }
func ExactSet(v Version) VersionSet {
	return VersionSet{kind: setExact, exact: v}
}

// RangeSet builds the half-open interval [lo, hi). A nil hi is unbounded above.
func RangeSet(lo Version, hi *Version) VersionSet {
	return VersionSet{kind: setRange, lo: lo, hi: hi}
}

func (s VersionSet) IsEmpty() bool { return s.kind == setEmpty }
func (s VersionSet) IsAny() bool   { return s.kind == setAny }
func (s VersionSet) IsExact() bool { return s.kind == setExact }
func (s VersionSet) IsRange() bool { return s.kind == setRange }

func (s VersionSet) Exact() Version        { return s.exact }
func (s VersionSet) Bounds() (Version, *Version) { return s.lo, s.hi }

func (s VersionSet) String() string {
	switch s.kind {
	case setEmpty:
		return "<empty>"
	case setAny:
		return "*"
	case setExact:
		return s.exact.String()
	case setRange:
		if s.hi == nil {
			return fmt.Sprintf(">=%s", s.lo)
		}
		return fmt.Sprintf(">=%s <%s", s.lo, *s.hi)
	}
	return "?"
}

// Contains reports whether v lies within the set.
func (s VersionSet) Contains(v Version) bool {
	switch s.kind {
	case setEmpty:
		return false
	case setAny:
		return true
	case setExact:
		return s.exact.Equal(v)
	case setRange:
		return v.GreaterEq(s.lo) && (s.hi == nil || v.Less(*s.hi))
	}
	return false
}

// hiLessEq reports whether a <= b, treating nil as +infinity.
func hiLessEq(a, b *Version) bool {
	if b == nil {
		return true
	}
	if a == nil {
		return false
	}
	return a.LessEq(*b)
}

// hiLess reports whether a < b, treating nil as +infinity.
func hiLess(lo Version, hi *Version) bool {
	if hi == nil {
		return true
	}
	return lo.Less(*hi)
}

func minVersion(a, b Version) Version {
	if a.Less(b) {
		return a
	}
	return b
}

func maxHi(a, b *Version) *Version {
	if a == nil || b == nil {
		return nil
	}
	if a.GreaterEq(*b) {
		return a
	}
	return b
}

func rangesOverlap(lo1 Version, hi1 *Version, lo2 Version, hi2 *Version) bool {
	return hiLess(lo1, hi2) && hiLess(lo2, hi1)
}

func rangeContainsRange(outerLo Version, outerHi *Version, innerLo Version, innerHi *Version) bool {
	return outerLo.LessEq(innerLo) && hiLessEq(innerHi, outerHi)
}

// Intersect implements the lattice rules from §4.1: empty∩x=empty, any∩x=x,
// exact(v)∩s = exact(v) if s contains v else empty, range∩range = overlap.
func (s VersionSet) Intersect(o VersionSet) VersionSet {
	if s.kind == setEmpty || o.kind == setEmpty {
		return EmptySet()
	}
	if s.kind == setAny {
		return o
	}
	if o.kind == setAny {
		return s
	}
	if s.kind == setExact {
		if o.Contains(s.exact) {
			return s
		}
		return EmptySet()
	}
	if o.kind == setExact {
		return o.Intersect(s)
	}
	// both ranges
	lo1, hi1 := s.lo, s.hi
	lo2, hi2 := o.lo, o.hi
	if !rangesOverlap(lo1, hi1, lo2, hi2) {
		return EmptySet()
	}
	lo := lo1
	if lo2.Greater(lo1) {
		lo = lo2
	}
	hi := minHi(hi1, hi2)
	if hi != nil && !lo.Less(*hi) {
		return EmptySet()
	}
	return RangeSet(lo, hi)
}

func (v Version) Greater(o Version) bool { return v.Compare(o) > 0 }

func minHi(a, b *Version) *Version {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.LessEq(*b) {
		return a
	}
	return b
}

// Union returns the set {v : v in s or v in o} when representable as a
// single VersionSet (empty, any, exact, or one contiguous range); ok is
// false when the union would require two disjoint ranges.
func (s VersionSet) Union(o VersionSet) (VersionSet, bool) {
	if s.kind == setEmpty {
		return o, true
	}
	if o.kind == setEmpty {
		return s, true
	}
	if s.kind == setAny || o.kind == setAny {
		return AnySet(), true
	}
	if s.kind == setExact && o.kind == setExact {
		if s.exact.Equal(o.exact) {
			return s, true
		}
		return VersionSet{}, false
	}
	if s.kind == setExact || o.kind == setExact {
		exactSet, rangeSet := s, o
		if o.kind == setExact {
			exactSet, rangeSet = o, s
		}
		if rangeSet.Contains(exactSet.exact) {
			return rangeSet, true
		}
		return VersionSet{}, false
	}
	// both ranges
	if !rangesOverlap(s.lo, s.hi, o.lo, o.hi) {
		return VersionSet{}, false
	}
	lo := minVersion(s.lo, o.lo)
	hi := maxHi(s.hi, o.hi)
	return RangeSet(lo, hi), true
}

// Difference returns {v : v in s and v not in o}. ok is false when the
// result would require two disjoint ranges (a single interior exclusion).
func (s VersionSet) Difference(o VersionSet) (VersionSet, bool) {
	if o.kind == setEmpty {
		return s, true
	}
	if s.kind == setEmpty {
		return s, true
	}
	if o.kind == setAny {
		return EmptySet(), true
	}
	if s.kind == setExact {
		if o.Contains(s.exact) {
			return EmptySet(), true
		}
		return s, true
	}
	if s.kind == setAny {
		// removing anything less than everything from "any" leaves an
		// unbounded-but-punctured set, never a single range.
		return VersionSet{}, false
	}
	// s is a range (only remaining kind); o is exact or range.
	lo, hi := s.lo, s.hi
	if o.kind == setExact {
		if !s.Contains(o.exact) {
			return s, true
		}
		// a single interior point can't be carved out of a continuous range.
		return VersionSet{}, false
	}
	oLo, oHi := o.lo, o.hi
	if !rangesOverlap(lo, hi, oLo, oHi) {
		return s, true
	}
	if rangeContainsRange(oLo, oHi, lo, hi) {
		return EmptySet(), true
	}
	loInsideO := lo.GreaterEq(oLo) && hiLess(lo, oHi)
	if loInsideO {
		// the overlap eats s's lower end; what survives is the suffix after o.
		if oHi == nil {
			return EmptySet(), true
		}
		return RangeSet(*oHi, hi), true
	}
	oLoInsideS := oLo.GreaterEq(lo) && hiLess(oLo, hi)
	if oLoInsideS {
		if oHi != nil && hiLess(*oHi, hi) {
			// o sits strictly inside s: removing it would split s into two ranges.
			return VersionSet{}, false
		}
		// the overlap eats s's upper end; what survives is the prefix before o.
		newHi := oLo
		return RangeSet(lo, &newHi), true
	}
	// o sits strictly inside s: removing it would split s into two ranges.
	return VersionSet{}, false
}
