package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/windrift-labs/pactum/pkg/pypi"
	"github.com/windrift-labs/pactum/pkg/solver"
)

func writeLocalProject(t *testing.T, dir, name, version string, deps map[string]string) {
	t.Helper()
	project := pypi.CreateDefaultProject(name, version)
	for k, v := range deps {
		project.Project.Dependencies[k] = v
	}
	if err := pypi.WritePEP621Config(dir, project); err != nil {
		t.Fatalf("WritePEP621Config failed: %v", err)
	}

	buildData, err := yaml.Marshal(pypi.DefaultBuildSystem())
	if err != nil {
		t.Fatalf("marshaling build-system: %v", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "pyproject.toml"), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("opening pyproject.toml: %v", err)
	}
	defer f.Close()
	if _, err := f.Write(buildData); err != nil {
		t.Fatalf("appending build-system: %v", err)
	}
}

func TestLocalPathProvider_GetContainer(t *testing.T) {
	dir := t.TempDir()
	writeLocalProject(t, dir, "mylib", "0.3.0", map[string]string{"requests": ">=2.0.0"})

	provider := NewLocalPathProvider()
	provider.RegisterPath("mylib", dir)

	if !provider.Handles("MyLib") {
		t.Error("Handles should normalize names per PEP 503")
	}
	if provider.Handles("other") {
		t.Error("Handles should not claim an unregistered package")
	}

	container, err := provider.GetContainer(context.Background(), "mylib", false)
	if err != nil {
		t.Fatalf("GetContainer failed: %v", err)
	}

	versions := container.Versions(func(solver.Version) bool { return true })
	if len(versions) != 1 || versions[0].String() != "0.3.0" {
		t.Fatalf("expected [0.3.0], got %v", versions)
	}

	deps := container.Dependencies(versions[0])
	var sawRequests, sawSetuptools bool
	for _, d := range deps {
		if d.Package == "requests" {
			sawRequests = true
		}
		if d.Package == "setuptools" {
			sawSetuptools = true
		}
	}
	if !sawRequests {
		t.Errorf("expected a runtime dependency on requests, got %+v", deps)
	}
	if !sawSetuptools {
		t.Errorf("expected a build dependency on setuptools (PEP 518 fallback, since no python backend is importable here), got %+v", deps)
	}
}

func TestLocalPathProvider_UnregisteredPackage(t *testing.T) {
	provider := NewLocalPathProvider()
	container, err := provider.GetContainer(context.Background(), "missing", false)
	if err != nil {
		t.Fatalf("expected no error for an unregistered package, got %v", err)
	}
	if versions := container.Versions(func(solver.Version) bool { return true }); len(versions) != 0 {
		t.Errorf("expected no versions, got %v", versions)
	}
}

func TestCompositeProvider_RoutesLocalAndFallback(t *testing.T) {
	dir := t.TempDir()
	writeLocalProject(t, dir, "mylib", "1.0.0", nil)

	local := NewLocalPathProvider()
	local.RegisterPath("mylib", dir)

	fallback := NewInMemoryProvider()
	fallback.AddVersion("other", v("1.0.0"), nil)

	composite := NewCompositeProvider(local, fallback)

	localContainer, err := composite.GetContainer(context.Background(), "mylib", false)
	if err != nil {
		t.Fatalf("GetContainer(mylib) failed: %v", err)
	}
	if got := localContainer.Versions(func(solver.Version) bool { return true }); len(got) != 1 || got[0].String() != "1.0.0" {
		t.Errorf("expected mylib routed to the local provider, got %v", got)
	}

	otherContainer, err := composite.GetContainer(context.Background(), "other", false)
	if err != nil {
		t.Fatalf("GetContainer(other) failed: %v", err)
	}
	if got := otherContainer.Versions(func(solver.Version) bool { return true }); len(got) != 1 || got[0].String() != "1.0.0" {
		t.Errorf("expected other routed to the fallback provider, got %v", got)
	}
}
