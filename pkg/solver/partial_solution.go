package solver

// Assignment is a term recorded as true at a given decision level, either by
// decision (IsDecision, Cause nil) or by derivation (Cause set).
type Assignment struct {
	Term          Term
	DecisionLevel int
	IsDecision    bool
	Cause         *Incompatibility
}

// PartialSolution is the ordered log of assignments made so far.
type PartialSolution struct {
	Assignments []Assignment
	decided     int // count of decision assignments, i.e. the current decision level
}

// DecisionLevel is the number of decision assignments present.
func (ps *PartialSolution) DecisionLevel() int { return ps.decided }

// Derive appends a derivation assignment at the current decision level.
func (ps *PartialSolution) Derive(term Term, cause *Incompatibility) {
	ps.Assignments = append(ps.Assignments, Assignment{
		Term:          term,
		DecisionLevel: ps.decided,
		IsDecision:    false,
		Cause:         cause,
	})
}

// Decide appends a decision assignment; the new decision level is the count
// of decision assignments after the append.
func (ps *PartialSolution) Decide(term Term) {
	ps.decided++
	ps.Assignments = append(ps.Assignments, Assignment{
		Term:          term,
		DecisionLevel: ps.decided,
		IsDecision:    true,
	})
}

// Backtrack drops every assignment with DecisionLevel > level, preserving
// order of the remainder.
func (ps *PartialSolution) Backtrack(level int) {
	i := 0
	for ; i < len(ps.Assignments); i++ {
		if ps.Assignments[i].DecisionLevel > level {
			break
		}
	}
	ps.Assignments = ps.Assignments[:i]
	decided := 0
	for _, a := range ps.Assignments {
		if a.IsDecision {
			decided++
		}
	}
	ps.decided = decided
}

// PositiveTermFor folds the assignments touching pkg into a single term:
// positive assignments intersect, negative assignments subtract. Returns
// ok=false when the package has no assignments yet (unconstrained).
func (ps *PartialSolution) PositiveTermFor(pkg string) (Term, bool) {
	var acc Term
	have := false
	for _, a := range ps.Assignments {
		if a.Term.Package != pkg {
			continue
		}
		if !have {
			acc = a.Term
			if !acc.Positive {
				// start the fold from "any" so the first negative term
				// still subtracts into a positive result.
				acc = PositiveTerm(pkg, VersionSetReq(AnySet()))
				if merged, ok := acc.Intersect(a.Term); ok {
					acc = merged
				}
			}
			have = true
			continue
		}
		merged, ok := acc.Intersect(a.Term)
		if !ok {
			panic("solver: invariant violated — assignments for " + pkg + " do not combine")
		}
		acc = merged
	}
	if !have {
		return Term{}, false
	}
	return acc, true
}

// packageHasDecision reports whether pkg already has a decision assignment.
func (ps *PartialSolution) packageHasDecision(pkg string) bool {
	for _, a := range ps.Assignments {
		if a.IsDecision && a.Term.Package == pkg {
			return true
		}
	}
	return false
}

// Unsatisfied returns the positive term view for every package that has an
// assignment but no decision yet.
func (ps *PartialSolution) Unsatisfied() []Term {
	seen := make(map[string]bool)
	var out []Term
	for _, a := range ps.Assignments {
		pkg := a.Term.Package
		if seen[pkg] {
			continue
		}
		seen[pkg] = true
		if ps.packageHasDecision(pkg) {
			continue
		}
		if t, ok := ps.PositiveTermFor(pkg); ok {
			out = append(out, t)
		}
	}
	return out
}

// SatisfactionState is the result of checking how many terms of an
// incompatibility are satisfied by the current solution.
type SatisfactionState int

const (
	Unsatisfied SatisfactionState = iota
	AlmostSatisfied
	Satisfied
)

// termRelation classifies a single term against the current solution:
// Satisfied when an assignment already entails it, Unsatisfied (used here
// to mean "contradicted") when an assignment entails its inverse instead,
// AlmostSatisfied (overloaded to mean "inconclusive") when neither holds
// yet — i.e. no assignment touches the package, or the assigned term
// doesn't fully decide it either way.
func (ps *PartialSolution) termRelation(term Term) SatisfactionState {
	assigned, ok := ps.PositiveTermFor(term.Package)
	if !ok {
		return AlmostSatisfied
	}
	if assigned.Satisfies(term) {
		return Satisfied
	}
	if assigned.Satisfies(term.Inverse()) {
		return Unsatisfied
	}
	return AlmostSatisfied
}

// Satisfies evaluates an incompatibility against the partial solution. Any
// term already contradicted by an assignment makes the whole
// incompatibility permanently inert (Unsatisfied): it can never become
// fully satisfied, so propagation must not treat it as almost-satisfied on
// some other still-undecided term. Otherwise: all terms satisfied =>
// Satisfied (a conflict); all but one => AlmostSatisfied (with the
// remaining undecided term); two or more undecided => Unsatisfied.
func (ps *PartialSolution) Satisfies(incompat *Incompatibility) (SatisfactionState, Term) {
	undecidedCount := 0
	var remaining Term
	for _, term := range incompat.Terms {
		switch ps.termRelation(term) {
		case Satisfied:
			continue
		case Unsatisfied:
			return Unsatisfied, Term{}
		default: // inconclusive / undecided
			undecidedCount++
			remaining = term
			if undecidedCount > 1 {
				return Unsatisfied, Term{}
			}
		}
	}
	switch undecidedCount {
	case 0:
		return Satisfied, Term{}
	case 1:
		return AlmostSatisfied, remaining
	default:
		return Unsatisfied, Term{}
	}
}

// satisfiedByAssignments reports whether the assignment prefix ps.Assignments[:n]
// (conceptually; it operates on an explicit slice so callers can splice in
// the satisfier) satisfies incompat.
func satisfiedByAssignments(assignments []Assignment, incompat *Incompatibility) bool {
	prefix := PartialSolution{Assignments: assignments}
	for _, a := range assignments {
		if a.IsDecision {
			prefix.decided++
		}
	}
	state, _ := prefix.Satisfies(incompat)
	return state == Satisfied
}

// EarliestSatisfiers returns (previous, satisfier): the satisfier is the
// smallest-index assignment whose prefix first causes incompat to be fully
// satisfied; previous is the smallest-index assignment such that the prefix
// up to it, with the satisfier re-appended, is already satisfied. Both are
// nil when incompat is not satisfied by the full solution.
func (ps *PartialSolution) EarliestSatisfiers(incompat *Incompatibility) (previous, satisfier *Assignment) {
	satisfierIdx := -1
	for i := range ps.Assignments {
		if satisfiedByAssignments(ps.Assignments[:i+1], incompat) {
			satisfierIdx = i
			break
		}
	}
	if satisfierIdx == -1 {
		return nil, nil
	}
	satisfier = &ps.Assignments[satisfierIdx]

	for i := 0; i < satisfierIdx; i++ {
		candidate := append(append([]Assignment{}, ps.Assignments[:i+1]...), ps.Assignments[satisfierIdx])
		if satisfiedByAssignments(candidate, incompat) {
			previous = &ps.Assignments[i]
			return previous, satisfier
		}
	}
	return nil, satisfier
}

// VersionIntersection folds the per-package assignments through Intersect;
// ok is false if any step yields no intersection or no assignments exist.
func (ps *PartialSolution) VersionIntersection(pkg string) (Term, bool) {
	return ps.PositiveTermFor(pkg)
}
