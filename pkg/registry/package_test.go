package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/windrift-labs/pactum/pkg/solver"
)

func v(s string) solver.Version { return solver.MustParseVersion(s) }

func TestInMemoryProvider_GetContainer(t *testing.T) {
	r := NewInMemoryProvider()
	r.AddVersion("foo", v("1.0.0"), nil)
	r.AddVersion("foo", v("2.0.0"), []solver.Dependency{
		{Package: "bar", Req: solver.VersionSetReq(solver.RangeSet(v("1.0.0"), nil))},
	})

	container, err := r.GetContainer(context.Background(), "foo", false)
	if err != nil {
		t.Fatalf("GetContainer failed: %v", err)
	}
	versions := container.Versions(func(solver.Version) bool { return true })
	if len(versions) != 2 || versions[0].String() != "2.0.0" {
		t.Fatalf("expected [2.0.0, 1.0.0], got %v", versions)
	}

	deps := container.Dependencies(v("2.0.0"))
	if len(deps) != 1 || deps[0].Package != "bar" {
		t.Errorf("expected a dependency on bar, got %+v", deps)
	}
	if deps := container.Dependencies(v("1.0.0")); len(deps) != 0 {
		t.Errorf("expected no dependencies for 1.0.0, got %+v", deps)
	}
}

func TestInMemoryProvider_UnknownPackage(t *testing.T) {
	r := NewInMemoryProvider()
	container, err := r.GetContainer(context.Background(), "missing", false)
	if err != nil {
		t.Fatalf("expected no error for an unknown package, got %v", err)
	}
	if versions := container.Versions(func(solver.Version) bool { return true }); len(versions) != 0 {
		t.Errorf("expected no versions, got %v", versions)
	}
}

func TestPyPIProvider_GetContainer(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/json"):
			w.Write([]byte(`{
				"info": {"name": "foo", "version": "2.0.0", "requires_dist": ["bar (>=1.0.0)"]},
				"releases": {"1.0.0": [], "2.0.0": []},
				"urls": []
			}`))
		case strings.Contains(r.URL.Path, "/simple/"):
			w.Write([]byte(`<html><body><a href="foo-3.0.0-py3-none-any.whl">foo-3.0.0-py3-none-any.whl</a></body></html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	os.Setenv("PACTUM_INDEX_URL", ts.URL)
	defer os.Unsetenv("PACTUM_INDEX_URL")

	provider := NewPyPIProvider()
	container, err := provider.GetContainer(context.Background(), "foo", false)
	if err != nil {
		t.Fatalf("GetContainer failed: %v", err)
	}

	// 1.0.0 and 2.0.0 come from the JSON API's releases map, 3.0.0 is only
	// listed on the simple index — both sources must be merged.
	versions := container.Versions(func(solver.Version) bool { return true })
	if len(versions) != 3 || versions[0].String() != "3.0.0" {
		t.Fatalf("expected [3.0.0, 2.0.0, 1.0.0], got %v", versions)
	}

	deps := container.Dependencies(v("2.0.0"))
	if len(deps) != 1 || deps[0].Package != "bar" {
		t.Errorf("expected a dependency on bar, got %+v", deps)
	}
}

