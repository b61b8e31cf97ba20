package pypi

import (
	"strings"

	"github.com/windrift-labs/pactum/pkg/solver"
)

// ParseRequiresDist parses one PyPI requires_dist entry — e.g.
// `urllib3 (>=1.21.1,<3) ; python_version >= "3"` or `certifi>=2017.4.17` —
// into a solver.Dependency. Environment markers (after ';') and extras
// (`name[extra]`) are stripped rather than evaluated: marker evaluation and
// extras are platform/feature concerns the solver's core keeps out of scope.
func ParseRequiresDist(raw string) (solver.Dependency, bool) {
	spec := raw
	if i := strings.IndexByte(spec, ';'); i >= 0 {
		spec = spec[:i]
	}
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return solver.Dependency{}, false
	}

	name := spec
	rest := ""
	if i := strings.IndexAny(spec, "([<>=!~ "); i >= 0 {
		name = spec[:i]
		rest = spec[i:]
	}
	if j := strings.IndexByte(name, '['); j >= 0 {
		name = name[:j]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return solver.Dependency{}, false
	}

	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "[") {
		if k := strings.IndexByte(rest, ']'); k >= 0 {
			rest = rest[k+1:]
		}
	}
	rest = strings.TrimSpace(rest)
	rest = strings.TrimPrefix(rest, "(")
	rest = strings.TrimSuffix(rest, ")")

	req, ok := ParseVersionSpecifier(rest)
	if !ok {
		return solver.Dependency{}, false
	}
	return solver.Dependency{Package: name, Req: req}, true
}

// ParseVersionSpecifier parses a comma-separated PEP 440 specifier set
// ("" or "*" means unconstrained) into a solver.Requirement, by intersecting
// one VersionSet per clause. Clauses this solver's half-open ranges can't
// represent (!=, ===, arbitrary equality) are skipped: dropping a clause
// only widens what's accepted here, it never silently narrows past what
// conflicting transitive constraints would otherwise catch during solving.
func ParseVersionSpecifier(spec string) (solver.Requirement, bool) {
	spec = strings.TrimSpace(spec)
	if spec == "" || spec == "*" {
		return solver.VersionSetReq(solver.AnySet()), true
	}

	set := solver.AnySet()
	for _, clause := range strings.Split(spec, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		clauseSet, ok := parseClause(clause)
		if !ok {
			continue
		}
		set = set.Intersect(clauseSet)
	}
	return solver.VersionSetReq(set), true
}

// parseClause handles a single >=, <=, ==, ~=, >, or < specifier.
func parseClause(clause string) (solver.VersionSet, bool) {
	for _, op := range []string{">=", "<=", "==", "~=", ">", "<"} {
		if !strings.HasPrefix(clause, op) {
			continue
		}
		verStr := strings.TrimSpace(strings.TrimPrefix(clause, op))
		verStr = strings.TrimSuffix(verStr, ".*")
		v, err := solver.ParseVersion(verStr)
		if err != nil {
			return solver.VersionSet{}, false
		}
		switch op {
		case "==":
			return solver.ExactSet(v), true
		case ">=":
			return solver.RangeSet(v, nil), true
		case ">":
			next := nextPatch(v)
			return solver.RangeSet(next, nil), true
		case "<":
			return solver.RangeSet(solver.Version{}, &v), true
		case "<=":
			hi := nextPatch(v)
			return solver.RangeSet(solver.Version{}, &hi), true
		case "~=":
			// ~=1.4.2 means "compatible with 1.4.2": >=1.4.2, <1.5.0.
			hi := solver.Version{Major: v.Major, Minor: v.Minor + 1, Patch: 0}
			return solver.RangeSet(v, &hi), true
		}
	}
	return solver.VersionSet{}, false
}

func nextPatch(v solver.Version) solver.Version {
	return solver.Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
}
