package solver

import "context"

// Dependency is one edge out of a specific package version: a required
// package id paired with the requirement it must satisfy.
type Dependency struct {
	Package string
	Req     Requirement
}

// Container exposes everything the resolver needs about one package: its
// available versions, newest-first, and the dependencies declared at a
// given version.
type Container interface {
	// Versions returns the versions matching filter, ordered newest-first.
	// The provider is responsible for the ordering guarantee (§4.6, §9
	// latest-first preference).
	Versions(filter func(Version) bool) []Version
	// Dependencies returns the declared dependency edges at version v.
	Dependencies(v Version) []Dependency
}

// PackageContainerProvider is the external collaborator that resolves a
// package id to its Container. Implementations live outside pkg/solver
// (e.g. pkg/registry) — the core never imports a concrete provider.
type PackageContainerProvider interface {
	GetContainer(ctx context.Context, id string, skipUpdate bool) (Container, error)
}

// Delegate is an optional reporting sink for progress events: WillResolve
// fires just before a package's container is fetched to pick its version,
// DidResolve just after a version is decided for it. It has no semantic
// role in solving — a nil Delegate is always valid and skipped.
type Delegate interface {
	WillResolve(pkg string)
	DidResolve(pkg string, version Version)
}
