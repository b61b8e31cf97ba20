package solver

import "fmt"

// Report is a human-readable cascade of "because X and Y, Z" lines
// explaining a terminal incompatibility. Presentation-only: building one
// never touches solver state (§4.5).
type Report struct {
	Lines []string
}

func (r *Report) String() string {
	out := ""
	for i, l := range r.Lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

// NewReport walks the derivation DAG of terminal and produces its
// explanation, per §4.5.
func NewReport(terminal *Incompatibility, root string) *Report {
	rep := &reporter{root: root, refCount: make(map[int]int), lineOf: make(map[int]int)}
	rep.countRefs(terminal)
	rep.emit(terminal)
	return &Report{Lines: rep.lines}
}

type reporter struct {
	root     string
	refCount map[int]int
	lineOf   map[int]int
	lines    []string
}

// countRefs counts how many times each incompatibility appears as an
// ancestor via a conflict cause, so shared subderivations (diamonds) get a
// stable line number instead of being printed twice.
func (rp *reporter) countRefs(i *Incompatibility) {
	if !i.Cause.IsConflict() {
		return
	}
	rp.refCount[i.Cause.Left.ID()]++
	rp.refCount[i.Cause.Right.ID()]++
	rp.countRefs(i.Cause.Left)
	rp.countRefs(i.Cause.Right)
}

// describe renders a single incompatibility as a clause (not a full line).
func (rp *reporter) describe(i *Incompatibility) string {
	if len(i.Terms) == 1 {
		t := i.Terms[0]
		if t.Package == rp.root {
			return fmt.Sprintf("root requires %s", t.Req)
		}
	}
	return i.String()
}

// numbered formats a clause with its stable line number, if it has one.
func (rp *reporter) numbered(i *Incompatibility) string {
	d := rp.describe(i)
	if n, ok := rp.lineOf[i.ID()]; ok {
		return fmt.Sprintf("%s (%d)", d, n)
	}
	return d
}

// emit produces the lines explaining i by recursive descent over conflict
// causes, implementing the four shapes from §4.5.
func (rp *reporter) emit(i *Incompatibility) {
	if _, done := rp.lineOf[i.ID()]; done {
		return
	}
	if !i.Cause.IsConflict() {
		return
	}

	lhs, rhs := i.Cause.Left, i.Cause.Right
	lhsConflict, rhsConflict := lhs.Cause.IsConflict(), rhs.Cause.IsConflict()
	_, lhsNumbered := rp.lineOf[lhs.ID()]
	_, rhsNumbered := rp.lineOf[rhs.ID()]

	switch {
	case lhsConflict && rhsConflict && lhsNumbered && rhsNumbered:
		rp.addLine(fmt.Sprintf("Because %s and %s, %s.", rp.numbered(lhs), rp.numbered(rhs), rp.describe(i)))

	case lhsConflict && rhsConflict && (lhsNumbered || rhsNumbered):
		numbered, unnumbered := lhs, rhs
		if rhsNumbered {
			numbered, unnumbered = rhs, lhs
		}
		rp.emit(unnumbered)
		rp.addLine(fmt.Sprintf("And because %s, %s.", rp.numbered(numbered), rp.describe(i)))

	case lhsConflict && rhsConflict:
		if lhs.Cause.IsSingleLine() || rhs.Cause.IsSingleLine() {
			simple, complex := lhs, rhs
			if rhs.Cause.IsSingleLine() {
				simple, complex = rhs, lhs
			}
			rp.emit(simple)
			rp.emit(complex)
			rp.addLine(fmt.Sprintf("Thus, %s.", rp.describe(i)))
		} else {
			rp.emit(lhs)
			rp.emit(rhs)
			rp.addLine(fmt.Sprintf("Because %s and %s, %s.", rp.numbered(lhs), rp.numbered(rhs), rp.describe(i)))
		}

	case lhsConflict || rhsConflict:
		conflictSide, otherSide := lhs, rhs
		if rhsConflict {
			conflictSide, otherSide = rhs, lhs
		}
		if n, ok := rp.lineOf[conflictSide.ID()]; ok {
			_ = n
			rp.addLine(fmt.Sprintf("Because %s and %s, %s.", rp.describe(otherSide), rp.numbered(conflictSide), rp.describe(i)))
		} else {
			rp.emit(conflictSide)
			rp.addLine(fmt.Sprintf("Because %s and %s, %s.", rp.describe(otherSide), rp.numbered(conflictSide), rp.describe(i)))
		}

	default:
		rp.addLine(fmt.Sprintf("Because %s and %s, %s.", rp.describe(lhs), rp.describe(rhs), rp.describe(i)))
	}

	if rp.refCount[i.ID()] > 1 {
		rp.lineOf[i.ID()] = len(rp.lines)
	}
}

func (rp *reporter) addLine(line string) {
	rp.lines = append(rp.lines, line)
}
