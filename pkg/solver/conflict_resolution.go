package solver

// resolveConflict implements §4.4's ConflictResolution(conflict). It
// returns the learned root-cause incompatibility, or nil if the conflict is
// a complete failure (unresolvable).
func (r *resolverState) resolveConflict(conflict *Incompatibility) *Incompatibility {
	incompat := conflict

	for {
		if incompat.IsCompleteFailure(r.root) {
			return nil
		}

		previous, satisfier := r.solution.EarliestSatisfiers(incompat)
		if satisfier == nil {
			invariantViolation("conflict resolution reached an incompatibility the solution does not satisfy")
		}

		term := termForPackage(incompat, satisfier.Term.Package)

		previousLevel := 1
		if previous != nil {
			previousLevel = previous.DecisionLevel
		}

		if satisfier.IsDecision || previousLevel != satisfier.DecisionLevel {
			if incompat != conflict {
				r.store.Add(incompat)
			}
			r.solution.Backtrack(previousLevel)
			return incompat
		}

		resolvent := buildResolvent(incompat, satisfier, term)
		incompat = resolvent
	}
}

func termForPackage(incompat *Incompatibility, pkg string) Term {
	for _, t := range incompat.Terms {
		if t.Package == pkg {
			return t
		}
	}
	invariantViolation("incompatibility has no term for satisfier package " + pkg)
	return Term{}
}

// buildResolvent implements §4.4 Case B: union the incompatibility's terms
// with its satisfier's cause's terms, drop the satisfier's own package, and
// add the satisfier's inverse term back in unless it is already the term
// being resolved on. The resolvent's cause names the two incompatibilities
// that were merged: the one being resolved and the satisfier's cause.
func buildResolvent(incompat *Incompatibility, satisfier *Assignment, term Term) *Incompatibility {
	if satisfier.Cause == nil {
		invariantViolation("satisfier assignment for case B has no cause (it is a decision)")
	}

	merged := make([]Term, 0, len(incompat.Terms)+len(satisfier.Cause.Terms))
	for _, t := range incompat.Terms {
		if t.Package != satisfier.Term.Package {
			merged = append(merged, t)
		}
	}
	for _, t := range satisfier.Cause.Terms {
		if t.Package != satisfier.Term.Package {
			merged = append(merged, t)
		}
	}

	if !satisfier.Term.Satisfies(term) {
		inv := satisfier.Term.Inverse()
		if !sameTerm(inv, term) {
			merged = append(merged, inv)
		}
	}

	return NewIncompatibility(merged, Cause{Kind: CauseConflict, Left: incompat, Right: satisfier.Cause})
}

func sameTerm(a, b Term) bool {
	return a.Package == b.Package && a.Positive == b.Positive && a.Satisfies(b) && b.Satisfies(a)
}
