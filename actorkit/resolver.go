package actorkit

import (
	"time"

	"github.com/fergusinlondon/actorkit/path"
	"github.com/fergusinlondon/actorkit/ref"
)

// resolveAdd registers Ref under Path. Sent by a cell's father whenever it
// spawns a new child.
type resolveAdd struct {
	Path path.Path
	Ref  ref.Reference
}

// resolveRemove unregisters whatever is registered at Path. Sent whenever
// a cell is destroyed.
type resolveRemove struct {
	Path path.Path
}

// resolveGet asks the resolver to look Path up. The reply is a
// resolveResult sent back to whoever sent this message.
type resolveGet struct {
	Path path.Path
}

// resolveResult is the resolver's reply to a resolveGet.
type resolveResult struct {
	Ref   ref.Reference
	Found bool
}

// resolverBehavior is the system actor behind path-to-reference lookup.
// Registration and lookup both flow through its single mailbox, so a
// lookup issued after a registration it was sequenced after always sees
// it; nothing here needs its own lock.
type resolverBehavior struct {
	table map[string]ref.Reference
}

func newResolverBehavior() Behavior {
	return &resolverBehavior{table: make(map[string]ref.Reference)}
}

func (r *resolverBehavior) Receive(payload interface{}, ctx *Context) {
	switch msg := payload.(type) {
	case resolveAdd:
		r.table[msg.Path.String()] = msg.Ref
	case resolveRemove:
		delete(r.table, msg.Path.String())
	case resolveGet:
		found, ok := r.table[msg.Path.String()]
		ctx.Tell(ctx.Sender(), resolveResult{Ref: found, Found: ok})
	}
}

// resolver is the thin, synchronous-looking facade System and Cell use;
// underneath, every call is an ordinary Tell (or Ask, for lookups) to the
// resolver cell.
type resolver struct {
	cellRef ref.Reference
	system  *System
}

func (r *resolver) register(p path.Path, target ref.Reference) {
	r.cellRef.EnqueueUser(refEnvelope(resolveAdd{Path: p, Ref: target}))
}

func (r *resolver) forget(p path.Path) {
	r.cellRef.EnqueueUser(refEnvelope(resolveRemove{Path: p}))
}

func (r *resolver) lookup(from ref.Reference, p path.Path, timeout time.Duration) (ref.Reference, error) {
	reply, err := ask(r.system, r.cellRef, resolveGet{Path: p}, timeout)
	if err != nil {
		return ref.Reference{}, err
	}
	result := reply.(resolveResult)
	if !result.Found {
		return ref.Reference{}, ErrUnknownName
	}
	return result.Ref, nil
}

func refEnvelope(payload interface{}) ref.Envelope {
	return ref.Envelope{Payload: payload}
}
