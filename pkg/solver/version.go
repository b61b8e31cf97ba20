package solver

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a totally ordered value whose ordering is compatible with
// semantic versioning: compare major, then minor, then patch, then
// pre-release (a version with a pre-release sorts before the same
// major.minor.patch without one).
type Version struct {
	Major, Minor, Patch int
	Pre                 string
	raw                 string
}

// ParseVersion parses a "major.minor.patch[-pre]" string. It does not
// attempt to support the full semver grammar (build metadata, multi-segment
// pre-release precedence) — only what the solver needs to order versions.
func ParseVersion(s string) (Version, error) {
	raw := s
	pre := ""
	if i := strings.IndexByte(s, '-'); i >= 0 {
		pre = s[i+1:]
		s = s[:i]
	}
	if i := strings.IndexByte(s, '+'); i >= 0 {
		s = s[:i]
	}
	parts := strings.SplitN(s, ".", 3)
	nums := [3]int{}
	for i := 0; i < len(parts) && i < 3; i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return Version{}, fmt.Errorf("invalid version %q: %w", raw, err)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2], Pre: pre, raw: raw}, nil
}

// MustParseVersion panics on a malformed version. Intended for tests and
// static table construction, never for user input.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	if v.raw != "" {
		return v.raw
	}
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Pre != "" {
		s += "-" + v.Pre
	}
	return s
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than o.
func (v Version) Compare(o Version) int {
	if v.Major != o.Major {
		return cmpInt(v.Major, o.Major)
	}
	if v.Minor != o.Minor {
		return cmpInt(v.Minor, o.Minor)
	}
	if v.Patch != o.Patch {
		return cmpInt(v.Patch, o.Patch)
	}
	if v.Pre == o.Pre {
		return 0
	}
	// No pre-release sorts after any pre-release of the same core version.
	if v.Pre == "" {
		return 1
	}
	if o.Pre == "" {
		return -1
	}
	return strings.Compare(v.Pre, o.Pre)
}

func (v Version) Less(o Version) bool    { return v.Compare(o) < 0 }
func (v Version) Equal(o Version) bool   { return v.Compare(o) == 0 }
func (v Version) LessEq(o Version) bool  { return v.Compare(o) <= 0 }
func (v Version) GreaterEq(o Version) bool { return v.Compare(o) >= 0 }

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// SortVersionsDescending sorts versions newest-first in place, matching the
// ordering Container.Versions is required to produce.
func SortVersionsDescending(vs []Version) {
	for i := 1; i < len(vs); i++ {
		for j := i; j > 0 && vs[j-1].Less(vs[j]); j-- {
			vs[j-1], vs[j] = vs[j], vs[j-1]
		}
	}
}
