package solver

import "testing"

func TestPartialSolutionDecideBumpsLevel(t *testing.T) {
	var ps PartialSolution
	ps.Decide(PositiveTerm("root", VersionSetReq(ExactSet(v("1.0.0")))))
	if ps.DecisionLevel() != 1 {
		t.Fatalf("decision level = %d, want 1", ps.DecisionLevel())
	}
	ps.Derive(PositiveTerm("foo", VersionSetReq(AnySet())), nil)
	if ps.DecisionLevel() != 1 {
		t.Fatal("a derivation must not change the decision level")
	}
	ps.Decide(PositiveTerm("foo", VersionSetReq(ExactSet(v("2.0.0")))))
	if ps.DecisionLevel() != 2 {
		t.Fatalf("decision level = %d, want 2", ps.DecisionLevel())
	}
}

func TestPartialSolutionBacktrack(t *testing.T) {
	var ps PartialSolution
	ps.Decide(PositiveTerm("root", VersionSetReq(ExactSet(v("1.0.0")))))
	ps.Derive(PositiveTerm("foo", VersionSetReq(AnySet())), nil)
	ps.Decide(PositiveTerm("foo", VersionSetReq(ExactSet(v("2.0.0")))))
	ps.Derive(PositiveTerm("bar", VersionSetReq(AnySet())), nil)

	ps.Backtrack(1)
	if ps.DecisionLevel() != 1 {
		t.Fatalf("decision level after backtrack = %d, want 1", ps.DecisionLevel())
	}
	for _, a := range ps.Assignments {
		if a.DecisionLevel > 1 {
			t.Error("no assignment should remain above the backtrack level")
		}
	}
}

func TestPartialSolutionPositiveTermForFoldsIntersection(t *testing.T) {
	var ps PartialSolution
	hi := v("3.0.0")
	ps.Derive(PositiveTerm("foo", VersionSetReq(RangeSet(v("1.0.0"), &hi))), nil)
	ps.Derive(PositiveTerm("foo", VersionSetReq(RangeSet(v("2.0.0"), nil))), nil)

	term, ok := ps.PositiveTermFor("foo")
	if !ok {
		t.Fatal("expected a folded term for foo")
	}
	lo, gotHi := term.Req.Set().Bounds()
	if !lo.Equal(v("2.0.0")) || gotHi == nil || !gotHi.Equal(hi) {
		t.Errorf("folded term = [%s, %v), want [2.0.0, 3.0.0)", lo, gotHi)
	}
}

func TestPartialSolutionSatisfies(t *testing.T) {
	var ps PartialSolution
	ps.Decide(PositiveTerm("foo", VersionSetReq(ExactSet(v("1.0.0")))))

	incompat := NewIncompatibility([]Term{
		PositiveTerm("foo", VersionSetReq(ExactSet(v("1.0.0")))),
		PositiveTerm("bar", VersionSetReq(AnySet())),
	}, Cause{Kind: CauseDependency, Package: "foo"})

	state, remaining := ps.Satisfies(incompat)
	if state != AlmostSatisfied {
		t.Fatalf("state = %v, want AlmostSatisfied", state)
	}
	if remaining.Package != "bar" {
		t.Errorf("remaining term package = %s, want bar", remaining.Package)
	}

	ps.Derive(PositiveTerm("bar", VersionSetReq(AnySet())), incompat)
	state2, _ := ps.Satisfies(incompat)
	if state2 != Satisfied {
		t.Fatalf("state after deriving bar = %v, want Satisfied", state2)
	}
}

func TestPartialSolutionUnsatisfied(t *testing.T) {
	var ps PartialSolution
	ps.Decide(PositiveTerm("root", VersionSetReq(ExactSet(v("1.0.0")))))
	ps.Derive(PositiveTerm("foo", VersionSetReq(AnySet())), nil)

	un := ps.Unsatisfied()
	if len(un) != 1 || un[0].Package != "foo" {
		t.Fatalf("expected only foo to be unsatisfied, got %v", un)
	}
}
