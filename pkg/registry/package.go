// Package registry implements the external collaborators that answer the
// solver's questions about package versions and dependencies: PyPIProvider
// for the live index, and InMemoryProvider for fixtures and tests. Neither
// type is imported by pkg/solver — the core only ever sees the
// solver.PackageContainerProvider interface (§6).
package registry

import (
	"context"
	"fmt"

	"github.com/windrift-labs/pactum/pkg/netutil"
	"github.com/windrift-labs/pactum/pkg/pypi"
	"github.com/windrift-labs/pactum/pkg/solver"
)

// packageContainer answers Versions/Dependencies for one package from data
// already fetched by its provider.
type packageContainer struct {
	versions []solver.Version
	deps     map[string][]solver.Dependency
}

func (c *packageContainer) Versions(filter func(solver.Version) bool) []solver.Version {
	var out []solver.Version
	for _, v := range c.versions {
		if filter(v) {
			out = append(out, v)
		}
	}
	solver.SortVersionsDescending(out)
	return out
}

func (c *packageContainer) Dependencies(at solver.Version) []solver.Dependency {
	return c.deps[at.String()]
}

// PyPIProvider implements solver.PackageContainerProvider against the live
// PyPI index: the JSON API (pkg/pypi) supplies requires_dist edges, and the
// simple index HTML page (pkg/netutil, golang.org/x/net/html) is cross
// checked against the JSON release set the way a mirror-aware client would,
// rather than trusting a single source for which versions exist.
type PyPIProvider struct {
	client *pypi.PyPIClient
}

// NewPyPIProvider builds a provider against the configured PyPI index
// (pkg/netutil.Config's index_url, or pypi.org by default).
func NewPyPIProvider() *PyPIProvider {
	return &PyPIProvider{client: pypi.NewPyPIClient()}
}

func (p *PyPIProvider) GetContainer(ctx context.Context, id string, skipUpdate bool) (solver.Container, error) {
	metadata, err := p.client.FetchPackageMetadata(id)
	if err != nil {
		return nil, fmt.Errorf("fetching %s from PyPI: %w", id, err)
	}

	versionSet := make(map[string]solver.Version, len(metadata.Releases))
	for raw := range metadata.Releases {
		if v, err := solver.ParseVersion(raw); err == nil {
			versionSet[v.String()] = v
		}
	}

	// Cross-check against the simple index: its link set is the thing a
	// real mirror actually serves, so a version dropped from the JSON API
	// but still listed there should still be solvable.
	if indexHTML, err := p.client.FetchSimpleIndex(id); err == nil {
		if versions, err := netutil.ExtractPackageVersions(indexHTML, id); err == nil {
			for _, v := range versions {
				versionSet[v.String()] = v
			}
		}
	}

	container := &packageContainer{deps: make(map[string][]solver.Dependency)}
	for _, v := range versionSet {
		container.versions = append(container.versions, v)
	}

	var deps []solver.Dependency
	for _, raw := range metadata.Info.RequiresDist {
		if dep, ok := pypi.ParseRequiresDist(raw); ok {
			deps = append(deps, dep)
		}
	}
	// requires_dist in the JSON API describes only the release named by
	// info.version; it is attached to every known version as a
	// simplification rather than fetching per-version metadata.
	for _, v := range container.versions {
		container.deps[v.String()] = deps
	}

	return container, nil
}

// InMemoryProvider is a fixed catalogue of packages/versions/dependencies,
// used by tests and offline tooling in place of a live PyPI index.
type InMemoryProvider struct {
	packages map[string]*packageContainer
}

// NewInMemoryProvider creates an empty in-memory provider.
func NewInMemoryProvider() *InMemoryProvider {
	return &InMemoryProvider{packages: make(map[string]*packageContainer)}
}

// AddVersion registers one version of a package with its dependency edges.
func (r *InMemoryProvider) AddVersion(name string, version solver.Version, deps []solver.Dependency) {
	c, ok := r.packages[name]
	if !ok {
		c = &packageContainer{deps: make(map[string][]solver.Dependency)}
		r.packages[name] = c
	}
	c.versions = append(c.versions, version)
	c.deps[version.String()] = deps
}

func (r *InMemoryProvider) GetContainer(ctx context.Context, id string, skipUpdate bool) (solver.Container, error) {
	if c, ok := r.packages[id]; ok {
		return c, nil
	}
	return &packageContainer{deps: make(map[string][]solver.Dependency)}, nil
}
