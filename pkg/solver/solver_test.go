package solver

import (
	"context"
	"testing"
)

// fakeVersion describes one offered version of a package in the in-memory
// test fixtures below.
type fakeVersion struct {
	version Version
	deps    []Dependency
}

type fakeContainer struct {
	versions []fakeVersion
}

func (c *fakeContainer) Versions(filter func(Version) bool) []Version {
	var out []Version
	for _, fv := range c.versions {
		if filter(fv.version) {
			out = append(out, fv.version)
		}
	}
	SortVersionsDescending(out)
	return out
}

func (c *fakeContainer) Dependencies(at Version) []Dependency {
	for _, fv := range c.versions {
		if fv.version.Equal(at) {
			return fv.deps
		}
	}
	return nil
}

type fakeProvider struct {
	packages map[string]*fakeContainer
}

func (p *fakeProvider) GetContainer(ctx context.Context, id string, skipUpdate bool) (Container, error) {
	c, ok := p.packages[id]
	if !ok {
		return &fakeContainer{}, nil
	}
	return c, nil
}

func req(lo string, hiStr string) Requirement {
	var hiPtr *Version
	if hiStr != "" {
		h := v(hiStr)
		hiPtr = &h
	}
	return VersionSetReq(RangeSet(v(lo), hiPtr))
}

func bindingMap(r *Result) map[string]string {
	out := make(map[string]string)
	for _, b := range r.Bindings {
		out[b.Package] = b.Version.String()
	}
	return out
}

func TestSolveTrivialRoot(t *testing.T) {
	provider := &fakeProvider{packages: map[string]*fakeContainer{}}
	result := Solve(context.Background(), "app", provider, nil, nil)
	if !result.Ok() {
		t.Fatalf("expected success, got %v", result.Err)
	}
	got := bindingMap(result)
	if len(got) != 1 || got["app"] == "" {
		t.Fatalf("expected only app bound, got %v", got)
	}
}

func TestSolveLinearChain(t *testing.T) {
	provider := &fakeProvider{packages: map[string]*fakeContainer{
		"b": {versions: []fakeVersion{
			{version: v("1.0.0")},
			{version: v("1.1.0")},
			{version: v("1.2.0")},
		}},
	}}
	result := SolveConstraints(context.Background(), []Dependency{
		{Package: "app", Req: req("1.0.0", "2.0.0")},
		{Package: "b", Req: req("1.0.0", "2.0.0")},
	}, provider, nil, nil)
	if !result.Ok() {
		t.Fatalf("expected success, got %v", result.Err)
	}
	got := bindingMap(result)
	if got["b"] != "1.2.0" {
		t.Errorf("b = %s, want 1.2.0 (newest matching)", got["b"])
	}
}

func TestSolveBackjump(t *testing.T) {
	provider := &fakeProvider{packages: map[string]*fakeContainer{
		"b": {versions: []fakeVersion{
			{version: v("1.0.0"), deps: []Dependency{{Package: "c", Req: req("1.0.0", "2.0.0")}}},
			{version: v("1.1.0"), deps: []Dependency{{Package: "c", Req: req("2.0.0", "3.0.0")}}},
		}},
		"c": {versions: []fakeVersion{
			{version: v("1.0.0")},
			{version: v("2.0.0")},
		}},
	}}
	result := SolveConstraints(context.Background(), []Dependency{
		{Package: "app", Req: req("1.0.0", "2.0.0")},
		{Package: "b", Req: req("1.0.0", "2.0.0")},
		{Package: "c", Req: req("1.0.0", "2.0.0")},
	}, provider, nil, nil)
	if !result.Ok() {
		t.Fatalf("expected success after backjumping, got %v", result.Err)
	}
	got := bindingMap(result)
	if got["b"] != "1.0.0" {
		t.Errorf("b = %s, want 1.0.0 (after backjump from the 1.1.0/c conflict)", got["b"])
	}
	if got["c"] != "1.0.0" {
		t.Errorf("c = %s, want 1.0.0", got["c"])
	}
}

func TestSolveNoMatchingVersion(t *testing.T) {
	provider := &fakeProvider{packages: map[string]*fakeContainer{
		"b": {versions: []fakeVersion{
			{version: v("1.0.0")},
			{version: v("2.0.0")},
		}},
	}}
	result := SolveConstraints(context.Background(), []Dependency{
		{Package: "app", Req: req("1.0.0", "2.0.0")},
		{Package: "b", Req: req("3.0.0", "4.0.0")},
	}, provider, nil, nil)
	if result.Ok() {
		t.Fatal("expected an unresolvable result")
	}
	if result.Err.Kind != ErrUnresolvable {
		t.Fatalf("expected ErrUnresolvable, got %v", result.Err.Kind)
	}
}

func TestSolveDirectConflict(t *testing.T) {
	provider := &fakeProvider{packages: map[string]*fakeContainer{
		"b": {versions: []fakeVersion{{version: v("1.0.0")}, {version: v("2.0.0")}}},
	}}
	result := SolveConstraints(context.Background(), []Dependency{
		{Package: "app", Req: req("1.0.0", "2.0.0")},
		{Package: "b", Req: req("1.0.0", "2.0.0")},
		{Package: "b", Req: req("2.0.0", "3.0.0")},
	}, provider, nil, nil)
	if result.Ok() {
		t.Fatal("expected an unresolvable result for directly conflicting constraints")
	}
	report := NewReport(result.Err.Incompatibility, "app")
	if len(report.Lines) == 0 {
		t.Error("expected the reporter to produce at least one line")
	}
}

func TestSolveDiamond(t *testing.T) {
	provider := &fakeProvider{packages: map[string]*fakeContainer{
		"x": {versions: []fakeVersion{{version: v("1.0.0"), deps: []Dependency{{Package: "z", Req: req("1.0.0", "2.0.0")}}}}},
		"y": {versions: []fakeVersion{{version: v("1.0.0"), deps: []Dependency{{Package: "z", Req: req("1.0.0", "2.0.0")}}}}},
		"z": {versions: []fakeVersion{{version: v("1.0.0")}}},
	}}
	result := SolveConstraints(context.Background(), []Dependency{
		{Package: "app", Req: req("1.0.0", "2.0.0")},
		{Package: "x", Req: req("1.0.0", "2.0.0")},
		{Package: "y", Req: req("1.0.0", "2.0.0")},
	}, provider, nil, nil)
	if !result.Ok() {
		t.Fatalf("expected success, got %v", result.Err)
	}
	got := bindingMap(result)
	for _, pkg := range []string{"app", "x", "y", "z"} {
		if got[pkg] == "" {
			t.Errorf("expected %s to be bound, got %v", pkg, got)
		}
	}

	zCount := 0
	for _, a := range result.Bindings {
		if a.Package == "z" {
			zCount++
		}
	}
	if zCount != 1 {
		t.Errorf("z should be decided exactly once, counted %d bindings", zCount)
	}
}

func TestSolvePinsArePreferred(t *testing.T) {
	provider := &fakeProvider{packages: map[string]*fakeContainer{
		"b": {versions: []fakeVersion{{version: v("1.0.0")}, {version: v("1.5.0")}}},
	}}
	result := SolveConstraints(context.Background(), []Dependency{
		{Package: "app", Req: req("1.0.0", "2.0.0")},
		{Package: "b", Req: req("1.0.0", "2.0.0")},
	}, provider, []Pin{{Package: "b", Version: v("1.0.0")}}, nil)
	if !result.Ok() {
		t.Fatalf("expected success, got %v", result.Err)
	}
	got := bindingMap(result)
	if got["b"] != "1.0.0" {
		t.Errorf("b = %s, want the pinned 1.0.0 rather than the newer 1.5.0", got["b"])
	}
}

type recordingDelegate struct {
	willResolve []string
	didResolve  map[string]Version
}

func (d *recordingDelegate) WillResolve(pkg string) {
	d.willResolve = append(d.willResolve, pkg)
}

func (d *recordingDelegate) DidResolve(pkg string, version Version) {
	if d.didResolve == nil {
		d.didResolve = make(map[string]Version)
	}
	d.didResolve[pkg] = version
}

func TestSolveNotifiesDelegate(t *testing.T) {
	provider := &fakeProvider{packages: map[string]*fakeContainer{
		"b": {versions: []fakeVersion{{version: v("1.0.0")}, {version: v("1.2.0")}}},
	}}
	delegate := &recordingDelegate{}
	result := SolveConstraints(context.Background(), []Dependency{
		{Package: "app", Req: req("1.0.0", "2.0.0")},
		{Package: "b", Req: req("1.0.0", "2.0.0")},
	}, provider, nil, delegate)
	if !result.Ok() {
		t.Fatalf("expected success, got %v", result.Err)
	}
	if len(delegate.willResolve) == 0 {
		t.Error("expected WillResolve to be called at least once")
	}
	if delegate.didResolve["b"].String() != "1.2.0" {
		t.Errorf("expected DidResolve(b, 1.2.0), got %v", delegate.didResolve["b"])
	}
}

func TestSolveRespectsContextCancellation(t *testing.T) {
	provider := &fakeProvider{packages: map[string]*fakeContainer{}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := Solve(ctx, "app", provider, nil, nil)
	if result.Ok() {
		t.Fatal("expected a cancellation error")
	}
}

func TestSortVersionsDescendingStable(t *testing.T) {
	vs := []Version{v("1.0.0"), v("1.0.0"), v("2.0.0")}
	SortVersionsDescending(vs)
	for i := 1; i < len(vs); i++ {
		if vs[i].Greater(vs[i-1]) {
			t.Fatalf("not descending at index %d: %v", i, vs)
		}
	}
}
