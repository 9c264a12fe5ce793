// Package ref implements the opaque handle ("Reference") used to address
// everything a message can be sent to: a local actor cell, a one-shot
// reply-sink, the root sentinel, or a distant (non-local) stub.
//
// A Reference is a small, clonable value: cloning it shares the same
// backing, so references are cheap, pass-by-value handles.
package ref

import (
	"fmt"

	"github.com/fergusinlondon/actorkit/path"
)

// Kind discriminates what a Reference is backed by.
type Kind int

const (
	// KindCell backs onto a local actor cell.
	KindCell Kind = iota
	// KindReplySink backs onto a one-shot future completer.
	KindReplySink
	// KindCthulhu is the root sentinel; any message delivered to it is a
	// bug and triggers system shutdown.
	KindCthulhu
	// KindDistant never delivers locally; messages are logged and dropped.
	KindDistant
)

// Backend is implemented by whatever a Reference actually delivers to. Cells
// and reply-sinks in package actorkit satisfy this interface; ref itself
// never depends on either.
type Backend interface {
	EnqueueUser(Envelope)
	EnqueueSystem(SystemMessage)
	Step()
}

// Reference is an immutable, clonable handle. The zero value is not valid;
// build one with New, NewCthulhu, or NewDistant.
type Reference struct {
	path    path.Path
	kind    Kind
	backend Backend
}

// New builds a Reference of the given kind backed by backend, addressed at
// p. Used for KindCell and KindReplySink references.
func New(p path.Path, kind Kind, backend Backend) Reference {
	return Reference{path: p, kind: kind, backend: backend}
}

// NewCthulhu builds the root sentinel reference. onTouched is invoked, and
// then a panic propagates, on any enqueue or step — any message reaching it
// is a bug by construction.
func NewCthulhu(p path.Path, onTouched func()) Reference {
	return Reference{path: p, kind: KindCthulhu, backend: &cthulhuBackend{onTouched: onTouched}}
}

// NewDistant builds a reference that never delivers locally; enqueues are
// logged via logf and dropped.
func NewDistant(p path.Path, logf func(string, ...interface{})) Reference {
	return Reference{path: p, kind: KindDistant, backend: &distantBackend{logf: logf}}
}

// Path returns the address this reference resolves to.
func (r Reference) Path() path.Path { return r.path }

// Kind reports what backs this reference.
func (r Reference) Kind() Kind { return r.kind }

// Valid reports whether r was constructed through one of this package's
// constructors (as opposed to being the zero value).
func (r Reference) Valid() bool { return r.backend != nil }

// Equals defines reference equality as path equality.
func (r Reference) Equals(other Reference) bool {
	return r.path.Equals(other.path)
}

// EnqueueUser delivers an ordinary envelope to whatever backs this
// reference.
func (r Reference) EnqueueUser(env Envelope) {
	if r.backend == nil {
		return
	}
	r.backend.EnqueueUser(env)
}

// EnqueueSystem delivers a system message to whatever backs this reference.
func (r Reference) EnqueueSystem(msg SystemMessage) {
	if r.backend == nil {
		return
	}
	r.backend.EnqueueSystem(msg)
}

// Step performs at most one unit of work on whatever backs this reference.
func (r Reference) Step() {
	if r.backend == nil {
		return
	}
	r.backend.Step()
}

// String renders the reference's path for logging.
func (r Reference) String() string {
	if r.backend == nil {
		return "<invalid-ref>"
	}
	return r.path.String()
}

type cthulhuBackend struct {
	onTouched func()
}

func (c *cthulhuBackend) EnqueueUser(Envelope) { c.touch() }

func (c *cthulhuBackend) EnqueueSystem(SystemMessage) { c.touch() }

func (c *cthulhuBackend) Step() { c.touch() }

func (c *cthulhuBackend) touch() {
	if c.onTouched != nil {
		c.onTouched()
	}
	panic("ref: message delivered to root sentinel; this is always a programmer error")
}

type distantBackend struct {
	logf func(string, ...interface{})
}

func (d *distantBackend) EnqueueUser(env Envelope) {
	d.log("dropping user message to distant reference: %v", env.Payload)
}

func (d *distantBackend) EnqueueSystem(msg SystemMessage) {
	d.log("dropping system message to distant reference: %v", msg.Kind)
}

func (d *distantBackend) Step() {}

func (d *distantBackend) log(format string, args ...interface{}) {
	if d.logf != nil {
		d.logf(format, args...)
		return
	}
	fmt.Printf(format+"\n", args...)
}
