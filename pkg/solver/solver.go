package solver

import "context"

// Pin is a prior lockfile entry: a package pinned to an exact version. A
// Solve/SolveConstraints call turns each pin into a dependency(root)
// incompatibility, per Resolved Open Question 1.
type Pin struct {
	Package string
	Version Version
}

// resolverState bundles everything the resolver loop touches: the current
// partial solution, the incompatibility store, the root package id, and the
// container cache used to answer version/dependency questions. Exactly one
// logical task owns this state (§5) — no locking needed here; only the
// cache synchronises.
type resolverState struct {
	root     string
	solution PartialSolution
	store    *incompatibilityStore
	cache    *containerCache
	delegate Delegate
}

// Solve resolves root against the versions/dependencies the provider
// exposes. Each pin is added as a root dependency on exactly the pinned
// version (Resolved Open Question 1), so a pin is a hard constraint: when
// other constraints rule the pinned version out, the solve is unresolvable.
func Solve(ctx context.Context, root string, provider PackageContainerProvider, pins []Pin, delegate Delegate) *Result {
	return solveFrom(ctx, root, nil, provider, pins, delegate)
}

// SolveConstraints resolves a set of top-level constraints; the first
// constraint's package becomes root, per §6.
func SolveConstraints(ctx context.Context, constraints []Dependency, provider PackageContainerProvider, pins []Pin, delegate Delegate) *Result {
	if len(constraints) == 0 {
		invariantViolation("SolveConstraints requires at least one constraint")
	}
	root := constraints[0].Package
	return solveFrom(ctx, root, constraints, provider, pins, delegate)
}

func solveFrom(ctx context.Context, root string, constraints []Dependency, provider PackageContainerProvider, pins []Pin, delegate Delegate) *Result {
	r := &resolverState{
		root:     root,
		store:    newIncompatibilityStore(),
		cache:    newContainerCache(provider),
		delegate: delegate,
	}

	// root is decided directly below rather than forced through a
	// {¬root@any} root incompatibility's derivation path: deciding first and also
	// keeping {¬root@any} in the store would make that clause permanently
	// "almost satisfied" (root's positive decision can never satisfy a
	// negative-any term), re-deriving and re-enqueuing root forever.
	for _, c := range constraints {
		if c.Package == root {
			continue
		}
		r.store.Add(dependencyIncompatibility(root, Version{}, c.Package, c.Req))
	}
	for _, pin := range pins {
		if pin.Package == root {
			continue
		}
		r.store.Add(dependencyIncompatibility(root, Version{}, pin.Package, VersionSetReq(ExactSet(pin.Version))))
	}

	rootVersion := Version{}
	r.solution.Decide(PositiveTerm(root, VersionSetReq(ExactSet(rootVersion))))

	next := root
	for {
		if err := ctx.Err(); err != nil {
			return &Result{Err: fetchError(next, err)}
		}

		conflict := r.propagate(next)
		if conflict != nil {
			learned := r.resolveConflict(conflict)
			if learned == nil {
				return &Result{Err: unresolvableError(conflict)}
			}
			state, remaining := r.solution.Satisfies(learned)
			if state != AlmostSatisfied {
				invariantViolation("learned clause does not almost-satisfy the post-backtrack solution")
			}
			r.solution.Derive(remaining.Inverse(), learned)
			next = remaining.Package
			continue
		}

		pkg, done, err := r.makeDecision(ctx)
		if err != nil {
			return &Result{Err: fetchError(pkg, err)}
		}
		if done {
			return &Result{Bindings: r.bindings()}
		}
		next = pkg
	}
}

// makeDecision implements §4.4 MakeDecision. Returns (pkg, done, err):
// done is true when nothing more is decidable (success).
func (r *resolverState) makeDecision(ctx context.Context) (string, bool, error) {
	for _, candidate := range r.solution.Unsatisfied() {
		if !candidate.IsValidDecision(&r.solution) {
			continue
		}

		term, ok := r.solution.VersionIntersection(candidate.Package)
		if !ok {
			continue
		}
		if !term.Req.IsVersionSet() {
			// revision/unversioned requirements are bound directly without
			// consulting a container.
			r.solution.Decide(PositiveTerm(candidate.Package, term.Req))
			return candidate.Package, false, nil
		}

		if r.delegate != nil {
			r.delegate.WillResolve(candidate.Package)
		}

		container, err := r.cache.GetContainer(ctx, candidate.Package, false)
		if err != nil {
			return candidate.Package, false, err
		}

		versions := container.Versions(func(v Version) bool { return term.Req.Set().Contains(v) })
		if len(versions) == 0 {
			// return the package so the next propagation sees the new
			// clause satisfied and resolves the conflict.
			r.store.Add(noVersionsIncompatibility(candidate.Package, term.Req))
			return candidate.Package, false, nil
		}
		chosen := versions[0]

		for _, dep := range container.Dependencies(chosen) {
			r.store.Add(dependencyIncompatibility(candidate.Package, chosen, dep.Package, dep.Req))
		}

		r.solution.Decide(PositiveTerm(candidate.Package, VersionSetReq(ExactSet(chosen))))
		if r.delegate != nil {
			r.delegate.DidResolve(candidate.Package, chosen)
		}
		return candidate.Package, false, nil
	}
	return "", true, nil
}

// bindings maps the solution's decisions to the public BoundVersion form,
// per §6's mapping table.
func (r *resolverState) bindings() []Binding {
	out := make([]Binding, 0, len(r.solution.Assignments))
	for _, a := range r.solution.Assignments {
		if !a.IsDecision {
			continue
		}
		out = append(out, Binding{Package: a.Term.Package, Version: toBoundVersion(a.Term.Req)})
	}
	return out
}

func toBoundVersion(req Requirement) BoundVersion {
	switch {
	case req.IsRevision():
		return BoundVersion{Kind: BoundVersionRevision, Revision: req.Revision()}
	case req.IsUnversioned():
		return BoundVersion{Kind: BoundVersionUnversioned}
	case req.IsVersionSet():
		s := req.Set()
		if s.IsExact() {
			return BoundVersion{Kind: BoundVersionExact, Version: s.Exact()}
		}
		if s.IsAny() {
			return BoundVersion{Kind: BoundVersionUnversioned}
		}
		invariantViolation("solved state contains a non-exact, non-any version set")
	}
	invariantViolation("solved state contains an unrecognised requirement kind")
	return BoundVersion{}
}
