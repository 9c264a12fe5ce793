// Package path implements the canonical identity and addressing scheme used
// to name actors. A Path is either Local, meaning it names a cell living in
// this process's hierarchy, or Distant, meaning it names a cell that lives
// somewhere else and is only ever a placeholder (see Distant below).
package path

import (
	"fmt"
	"strings"
)

// Kind discriminates the two Path variants.
type Kind int

const (
	// Local identifies a cell living in this process.
	Local Kind = iota
	// Distant identifies a cell that does not live in this process. The
	// runtime never delivers to a Distant path locally; it exists only so
	// that addresses can be carried and logged.
	Distant
)

// Path is an immutable, structurally-comparable actor address. The zero
// value is not a valid Path; use NewLocal or NewDistant.
type Path struct {
	kind     Kind
	logical  string
	endpoint string
}

// NewLocal builds a Local path from an absolute, "/"-separated logical name.
// logical must start with "/user" or "/system" (the root sentinel "/" is the
// single permitted exception).
func NewLocal(logical string) (Path, error) {
	if logical != "/" && !strings.HasPrefix(logical, "/user") && !strings.HasPrefix(logical, "/system") {
		return Path{}, fmt.Errorf("path: local path %q must start with /user or /system", logical)
	}
	return Path{kind: Local, logical: logical}, nil
}

// MustLocal is NewLocal for call sites (root bootstrap) that know the input
// is well formed; it panics otherwise.
func MustLocal(logical string) Path {
	p, err := NewLocal(logical)
	if err != nil {
		panic(err)
	}
	return p
}

// NewDistant builds a Distant path from a logical name and a transport
// endpoint (host:port or any opaque connection string). No attempt is made
// to validate or reach the endpoint; the distant variant is a stub (see
// spec §9, Open Questions).
func NewDistant(logical, endpoint string) Path {
	return Path{kind: Distant, logical: logical, endpoint: endpoint}
}

// Kind reports whether p is Local or Distant.
func (p Path) Kind() Kind { return p.kind }

// Logical returns the "/"-separated logical name, regardless of variant.
func (p Path) Logical() string { return p.logical }

// Endpoint returns the transport endpoint for a Distant path, or "" for a
// Local path.
func (p Path) Endpoint() string { return p.endpoint }

// Child appends name as a new path segment. It fails if p is Distant or if
// name itself contains a "/".
func (p Path) Child(name string) (Path, error) {
	if p.kind == Distant {
		return Path{}, fmt.Errorf("path: cannot form a child of a distant path %q", p)
	}
	if strings.Contains(name, "/") {
		return Path{}, fmt.Errorf("path: child name %q must not contain '/'", name)
	}
	if name == "" {
		return Path{}, fmt.Errorf("path: child name must not be empty")
	}
	if p.logical == "/" {
		return Path{kind: Local, logical: "/" + name}, nil
	}
	return Path{kind: Local, logical: p.logical + "/" + name}, nil
}

// Equals reports structural equality: same variant and same fields.
func (p Path) Equals(other Path) bool {
	return p.kind == other.kind && p.logical == other.logical && p.endpoint == other.endpoint
}

// String renders the conceptual wire form: the bare logical path for Local,
// or "<logical>@<endpoint>" for Distant. This is never actually transported;
// see spec §6.
func (p Path) String() string {
	if p.kind == Distant {
		return fmt.Sprintf("%s@%s", p.logical, p.endpoint)
	}
	return p.logical
}
