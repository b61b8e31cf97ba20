package pypi

import (
	"testing"

	"github.com/windrift-labs/pactum/pkg/solver"
)

func TestParseRequiresDist(t *testing.T) {
	tests := []struct {
		raw         string
		wantPackage string
		wantOK      bool
	}{
		{"urllib3 (>=1.21.1,<3) ; python_version >= \"3\"", "urllib3", true},
		{"certifi>=2017.4.17", "certifi", true},
		{"idna[extra] (>=2.5)", "idna", true},
		{"", "", false},
	}
	for _, test := range tests {
		dep, ok := ParseRequiresDist(test.raw)
		if ok != test.wantOK {
			t.Errorf("ParseRequiresDist(%q) ok=%v, want %v", test.raw, ok, test.wantOK)
			continue
		}
		if ok && dep.Package != test.wantPackage {
			t.Errorf("ParseRequiresDist(%q).Package = %q, want %q", test.raw, dep.Package, test.wantPackage)
		}
	}
}

func TestParseVersionSpecifierRange(t *testing.T) {
	req, ok := ParseVersionSpecifier(">=1.21.1,<3")
	if !ok {
		t.Fatal("expected ok")
	}
	set := req.Set()
	if !set.Contains(solver.MustParseVersion("2.0.0")) {
		t.Error("expected 2.0.0 to satisfy >=1.21.1,<3")
	}
	if set.Contains(solver.MustParseVersion("3.0.0")) {
		t.Error("expected 3.0.0 to violate >=1.21.1,<3")
	}
	if set.Contains(solver.MustParseVersion("1.0.0")) {
		t.Error("expected 1.0.0 to violate >=1.21.1,<3")
	}
}

func TestParseVersionSpecifierCompatibleRelease(t *testing.T) {
	req, ok := ParseVersionSpecifier("~=1.4.2")
	if !ok {
		t.Fatal("expected ok")
	}
	set := req.Set()
	if !set.Contains(solver.MustParseVersion("1.4.9")) {
		t.Error("expected 1.4.9 to satisfy ~=1.4.2")
	}
	if set.Contains(solver.MustParseVersion("1.5.0")) {
		t.Error("expected 1.5.0 to violate ~=1.4.2")
	}
}

func TestParseVersionSpecifierEmpty(t *testing.T) {
	req, ok := ParseVersionSpecifier("")
	if !ok || !req.Set().IsAny() {
		t.Errorf("expected an unconstrained any-set, got %+v ok=%v", req, ok)
	}
}
