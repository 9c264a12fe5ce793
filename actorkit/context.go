package actorkit

import (
	"errors"
	"time"

	"github.com/fergusinlondon/actorkit/path"
	"github.com/fergusinlondon/actorkit/ref"
)

// ErrUnknownName is returned by Context.Identify when the resolver has no
// reference registered at the requested path.
var ErrUnknownName = errors.New("actorkit: no reference registered at that path")

// ErrAskTimeout is returned by Context.Ask when no reply arrives before the
// deadline passes.
var ErrAskTimeout = errors.New("actorkit: ask timed out waiting for a reply")

// Context is handed to a Behavior for the duration of a single Receive,
// OnStart, OnPreRestart, OnPostRestart or OnTermination call. It
// must not be retained past that call: the sender it exposes is only
// meaningful during delivery, and the underlying cell may restart or die
// the instant the call returns.
type Context struct {
	cell   *Cell
	sender ref.Reference
}

// Self returns the reference addressing the cell this context belongs to.
func (c *Context) Self() ref.Reference { return c.cell.self }

// Father returns the reference to this cell's supervisor.
func (c *Context) Father() ref.Reference { return c.cell.father }

// Sender returns whoever sent the message currently being handled. During
// OnTermination it is the actor that terminated. It is the zero Reference
// in the other lifecycle hooks, or when the sender is not set.
func (c *Context) Sender() ref.Reference { return c.sender }

// Path returns the address of the cell this context belongs to.
func (c *Context) Path() path.Path { return c.cell.self.Path() }

// Tell sends payload to to without waiting for any reply, identifying this
// cell as the sender.
func (c *Context) Tell(to ref.Reference, payload interface{}) {
	to.EnqueueUser(ref.Envelope{Payload: payload, Sender: c.cell.self})
}

// Spawn creates a new child cell under this one, running props, and returns
// its reference. name must be unique among this cell's current children.
func (c *Context) Spawn(props Props, name string) (ref.Reference, error) {
	return c.cell.spawnChild(props, name)
}

// Stop asks child (which must be a direct child of this cell) to terminate.
func (c *Context) Stop(child ref.Reference) {
	c.cell.stopChild(child)
}

// KillMe asks this cell's father to remove and destroy it.
func (c *Context) KillMe() {
	c.cell.father.EnqueueUser(ref.Envelope{Control: ref.ControlKillMe, Who: c.cell.self})
}

// Monitor registers this cell to receive a Terminated notice when target
// dies, and adds target to this cell's own Monitored set.
func (c *Context) Monitor(target ref.Reference) {
	target.EnqueueSystem(ref.SystemMessage{Kind: ref.SysWatch, Watcher: c.cell.self})
	c.cell.addMonitoring(target)
}

// Unmonitor removes a previously registered watch on target.
func (c *Context) Unmonitor(target ref.Reference) {
	target.EnqueueSystem(ref.SystemMessage{Kind: ref.SysUnwatch, Watcher: c.cell.self})
	c.cell.removeMonitoring(target)
}

// Children returns a snapshot of this cell's strong-owned children,
// keyed by their logical path's string form.
func (c *Context) Children() map[string]ref.Reference {
	return c.cell.snapshotChildren()
}

// Monitored returns a snapshot of every reference this cell currently
// monitors: every child (monitored by default on spawn) plus anything
// added via Monitor. A superset of Children unless a child has been
// removed with Unmonitor.
func (c *Context) Monitored() map[string]ref.Reference {
	return c.cell.snapshotMonitoring()
}

// Complete delivers payload to future, a reply-sink reference such as the
// Sender of a message sent with Ask. It is equivalent to Tell but
// named for the case where future is known to be a one-shot sink rather
// than a general actor, matching spec.md's context surface.
func (c *Context) Complete(future ref.Reference, payload interface{}) {
	c.Tell(future, payload)
}

// Identify resolves p to a reference through the system's name resolver.
// It blocks the calling goroutine until the resolver replies or timeout
// elapses; called from a behavior hook, that goroutine is the scheduler
// worker running this cell.
func (c *Context) Identify(p path.Path, timeout time.Duration) (ref.Reference, error) {
	return c.cell.system.identify(c.cell.self, p, timeout)
}

// Ask sends payload to to and blocks the calling goroutine until a reply
// arrives or timeout elapses. A zero-value to is rejected at once; a
// target whose cell is already dead gets no reply, so the wait runs until
// timeout. Called from within Receive, the blocked goroutine is the
// scheduler worker running this cell, which handles nothing else
// meanwhile.
func (c *Context) Ask(to ref.Reference, payload interface{}, timeout time.Duration) (interface{}, error) {
	return ask(c.cell.system, to, payload, timeout)
}
