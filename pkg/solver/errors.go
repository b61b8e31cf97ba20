package solver

import "fmt"

// BoundVersionKind tags the final form of a resolved package binding.
type BoundVersionKind int

const (
	BoundVersionExact BoundVersionKind = iota
	BoundVersionRevision
	BoundVersionUnversioned
)

// BoundVersion is the final form of a resolved package binding: a concrete
// version, a revision id, or unversioned (local/editable source).
type BoundVersion struct {
	Kind     BoundVersionKind
	Version  Version
	Revision string
}

func (b BoundVersion) String() string {
	switch b.Kind {
	case BoundVersionExact:
		return b.Version.String()
	case BoundVersionRevision:
		return "rev:" + b.Revision
	case BoundVersionUnversioned:
		return "unversioned"
	}
	return "?"
}

// Binding pairs a resolved package with its bound version.
type Binding struct {
	Package string
	Version BoundVersion
}

// Result is the outcome of a solve: either a complete set of bindings or an
// Error.
type Result struct {
	Bindings []Binding
	Err      *Error
}

func (r *Result) Ok() bool { return r.Err == nil }

// ErrorKind distinguishes why a solve failed.
type ErrorKind int

const (
	// ErrUnresolvable: conflict resolution reached a complete-failure
	// incompatibility. Recoverable by the caller only by changing input.
	ErrUnresolvable ErrorKind = iota
	// ErrFetch: a container fetch failed and propagated from the provider,
	// or the context was cancelled between solver iterations.
	ErrFetch
)

// Error is the solver's public error type. Unresolvable carries the
// terminal incompatibility so callers can run the reporter over it.
type Error struct {
	Kind            ErrorKind
	Incompatibility *Incompatibility
	Package         string
	Cause           error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrUnresolvable:
		return "no solution found: " + e.Incompatibility.String()
	case ErrFetch:
		return fmt.Sprintf("fetching %s: %v", e.Package, e.Cause)
	}
	return "solver error"
}

func (e *Error) Unwrap() error { return e.Cause }

func unresolvableError(terminal *Incompatibility) *Error {
	return &Error{Kind: ErrUnresolvable, Incompatibility: terminal}
}

func fetchError(pkg string, cause error) *Error {
	return &Error{Kind: ErrFetch, Package: pkg, Cause: cause}
}

// invariantViolation panics — per §7, invariant violations are programmer
// errors that must abort the process, not be returned as a Result.
func invariantViolation(msg string) {
	panic("solver: invariant violated: " + msg)
}
