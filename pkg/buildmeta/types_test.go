package buildmeta

import "testing"

func TestToSolverConstraints(t *testing.T) {
	bm := NewBuildMeta("myproject", "1.0.0")
	bm.AddDependency("requests", ">=2.25.0")
	bm.AddDependency("mylib", "file:../mylib")

	constraints, paths := bm.ToSolverConstraints()

	if len(constraints) != 3 {
		t.Fatalf("expected 3 constraints (root + 2 deps), got %d: %+v", len(constraints), constraints)
	}
	if constraints[0].Package != "myproject" {
		t.Errorf("expected the project itself promoted to root, got %s", constraints[0].Package)
	}

	if paths["mylib"] != "../mylib" {
		t.Errorf("expected mylib's file: prefix stripped to a bare path, got %+v", paths)
	}
	if _, ok := paths["requests"]; ok {
		t.Error("requests is a PyPI dependency and should not appear in paths")
	}
}
