package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/windrift-labs/pactum/pkg/pypi"
	"github.com/windrift-labs/pactum/pkg/solver"
)

// LocalPathProvider resolves "file:" dependencies — local, often editable,
// checkouts referenced directly from a project's manifest instead of a
// published PyPI release. Each registered path is exposed as a single-version
// package: its PEP 621 project table supplies the version and runtime
// dependencies, and its PEP 518 build-system table (refined by a live PEP
// 517 backend query when the backend is importable) supplies the build-time
// dependencies that must also be placed in the graph before the package can
// actually be built.
type LocalPathProvider struct {
	paths map[string]string // normalized package name -> directory
}

// NewLocalPathProvider creates an empty provider; call RegisterPath once per
// "file:"-style requirement found in a project's manifest.
func NewLocalPathProvider() *LocalPathProvider {
	return &LocalPathProvider{paths: make(map[string]string)}
}

// RegisterPath associates a package name with the directory its
// pyproject.toml lives in.
func (p *LocalPathProvider) RegisterPath(name, dir string) {
	p.paths[normalizeName(name)] = dir
}

// Handles reports whether name was registered as a local path dependency,
// so a caller building a composite provider can route it here instead of
// to the live PyPI index.
func (p *LocalPathProvider) Handles(name string) bool {
	_, ok := p.paths[normalizeName(name)]
	return ok
}

func (p *LocalPathProvider) GetContainer(ctx context.Context, id string, skipUpdate bool) (solver.Container, error) {
	dir, ok := p.paths[normalizeName(id)]
	if !ok {
		return &packageContainer{deps: make(map[string][]solver.Dependency)}, nil
	}

	project, err := pypi.ParsePEP621Config(dir)
	if err != nil {
		return nil, fmt.Errorf("reading pyproject.toml for local path %s: %w", dir, err)
	}

	rawVersion := project.Project.Version
	if rawVersion == "" {
		rawVersion = "0.0.0"
	}
	version, err := solver.ParseVersion(rawVersion)
	if err != nil {
		return nil, fmt.Errorf("parsing local package %s version %q: %w", id, rawVersion, err)
	}

	var deps []solver.Dependency
	for name, constraint := range project.Project.Dependencies {
		if dep, ok := parseProjectTableDependency(name, constraint); ok {
			deps = append(deps, dep)
		}
	}
	deps = append(deps, p.buildDependencies(dir)...)

	return &packageContainer{
		versions: []solver.Version{version},
		deps:     map[string][]solver.Dependency{version.String(): deps},
	}, nil
}

// buildDependencies asks the project's PEP 517 build backend what it needs
// to produce a wheel, falling back to the static PEP 518
// build-system.requires list when no backend is importable in this
// environment (e.g. python isn't on PATH) or the query itself fails — a
// build that can't introspect its own requirements still names them
// statically, so solving shouldn't be all-or-nothing on a live backend.
func (p *LocalPathProvider) buildDependencies(dir string) []solver.Dependency {
	build518, err := pypi.ParsePEP518Config(dir)
	if err != nil {
		return nil
	}

	raw := build518.BuildSystem.Requires
	backend := pypi.NewPEP517BuildBackend(build518.BuildSystem.Backend, build518.BuildSystem.Backend)
	if reqs, err := backend.GetRequiresForBuildWheel(dir); err == nil && len(reqs) > 0 {
		raw = reqs
	}

	var deps []solver.Dependency
	for _, r := range raw {
		if dep, ok := pypi.ParseRequiresDist(r); ok {
			deps = append(deps, dep)
		}
	}
	return deps
}

// parseProjectTableDependency turns one entry of PEP621Project.Dependencies
// (a "name: constraint" mapping) into a solver edge, reusing the same PEP
// 440 clause grammar requires_dist entries use.
func parseProjectTableDependency(name, constraint string) (solver.Dependency, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return solver.Dependency{}, false
	}
	req, ok := pypi.ParseVersionSpecifier(constraint)
	if !ok {
		return solver.Dependency{}, false
	}
	return solver.Dependency{Package: name, Req: req}, true
}

// normalizeName applies PEP 503 name normalization so "Foo_Bar" and
// "foo-bar" address the same registered path.
func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("_", "-", ".", "-").Replace(name)
}

// CompositeProvider routes each package id to the first registered provider
// that claims it, falling back to a default for everything else. It exists
// so a project with local path dependencies can still resolve its other,
// PyPI-hosted requirements through a single solver.PackageContainerProvider.
type CompositeProvider struct {
	local   *LocalPathProvider
	fallback solver.PackageContainerProvider
}

// NewCompositeProvider builds a provider that checks local first and falls
// back to fallback (typically a PyPIProvider) for anything local doesn't
// recognize.
func NewCompositeProvider(local *LocalPathProvider, fallback solver.PackageContainerProvider) *CompositeProvider {
	return &CompositeProvider{local: local, fallback: fallback}
}

func (c *CompositeProvider) GetContainer(ctx context.Context, id string, skipUpdate bool) (solver.Container, error) {
	if c.local != nil && c.local.Handles(id) {
		return c.local.GetContainer(ctx, id, skipUpdate)
	}
	return c.fallback.GetContainer(ctx, id, skipUpdate)
}
