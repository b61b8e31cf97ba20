package solver

// changedSet is the worklist of packages to revisit during propagation,
// mirroring the teacher's unit-propagation loop structure (a map used as a
// set, one arbitrary pop per iteration).
type changedSet map[string]bool

func (c changedSet) pop() (string, bool) {
	for pkg := range c {
		delete(c, pkg)
		return pkg, true
	}
	return "", false
}

// propagate runs unit propagation seeded at next, per §4.4 step 1. It
// returns the first fully-satisfied incompatibility encountered (the
// conflict), or nil if changed drains without one.
func (r *resolverState) propagate(next string) *Incompatibility {
	changed := changedSet{next: true}

	for {
		pkg, ok := changed.pop()
		if !ok {
			return nil
		}
		for _, incompat := range r.store.ForPackage(pkg) {
			state, remaining := r.solution.Satisfies(incompat)
			switch state {
			case Satisfied:
				return incompat
			case AlmostSatisfied:
				r.solution.Derive(remaining.Inverse(), incompat)
				changed[remaining.Package] = true
			}
		}
	}
}
