package solver

type reqKind int

const (
	reqVersionSet reqKind = iota
	reqRevision
	reqUnversioned
)

// Requirement is the tagged union versionSet(VersionSet) | revision(id) | unversioned.
type Requirement struct {
	kind     reqKind
	set      VersionSet
	revision string
}

func VersionSetReq(s VersionSet) Requirement { return Requirement{kind: reqVersionSet, set: s} }
func RevisionReq(id string) Requirement      { return Requirement{kind: reqRevision, revision: id} }
func UnversionedReq() Requirement            { return Requirement{kind: reqUnversioned} }

func (r Requirement) IsVersionSet() bool  { return r.kind == reqVersionSet }
func (r Requirement) IsRevision() bool    { return r.kind == reqRevision }
func (r Requirement) IsUnversioned() bool { return r.kind == reqUnversioned }
func (r Requirement) Set() VersionSet     { return r.set }
func (r Requirement) Revision() string    { return r.revision }

func (r Requirement) String() string {
	switch r.kind {
	case reqVersionSet:
		return r.set.String()
	case reqRevision:
		return "rev:" + r.revision
	case reqUnversioned:
		return "unversioned"
	}
	return "?"
}

// Intersect combines two requirements of the same kind; ok is false for
// mixed kinds or when the underlying version sets fail to intersect (never
// happens for versionSet ∩ versionSet, which always yields at least empty).
func (r Requirement) Intersect(o Requirement) (Requirement, bool) {
	if r.kind != o.kind {
		return Requirement{}, false
	}
	switch r.kind {
	case reqVersionSet:
		return VersionSetReq(r.set.Intersect(o.set)), true
	case reqRevision:
		if r.revision == o.revision {
			return r, true
		}
		return Requirement{}, false
	case reqUnversioned:
		return r, true
	}
	return Requirement{}, false
}
