package actorkit

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fergusinlondon/actorkit/path"
	"github.com/fergusinlondon/actorkit/ref"
)

type cellState int32

const (
	stateNew cellState = iota
	stateRunning
	stateFailed
	stateDead
)

// Cell is the live home of one actor: a behavior instance, its two
// mailboxes, and its position in the supervision tree. A Cell satisfies
// ref.Backend so a Reference can address one without the ref package
// needing to know Cell exists.
//
// Exactly one goroutine runs inside Step at any instant, enforced by the
// busy latch below; everything that touches children, watchers or state
// is additionally protected by mu so that spawn/watch/lookup calls from
// other cells never race with that.
type Cell struct {
	self   ref.Reference
	father ref.Reference
	system *System
	name   string

	props    Props
	behavior Behavior

	mailbox    mailbox
	sysMailbox sysMailbox

	busy int32

	mu         sync.RWMutex
	state      cellState
	children   map[string]*Cell
	watchers   map[string]ref.Reference
	monitoring map[string]ref.Reference
}

func newCell(system *System, p path.Path, father ref.Reference, name string, props Props) *Cell {
	c := &Cell{
		father:     father,
		system:     system,
		name:       name,
		props:      props,
		behavior:   props.fresh(),
		children:   make(map[string]*Cell),
		watchers:   make(map[string]ref.Reference),
		monitoring: make(map[string]ref.Reference),
	}
	c.self = ref.New(p, ref.KindCell, c)
	return c
}

// snapshotChildren returns this cell's strong-owned children, keyed by
// their logical path's string form.
func (c *Cell) snapshotChildren() map[string]ref.Reference {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]ref.Reference, len(c.children))
	for _, ch := range c.children {
		out[ch.self.Path().String()] = ch.self
	}
	return out
}

// snapshotMonitoring returns every reference this cell currently
// monitors: every strong-owned child (monitored by default per spec.md
// §4.1's spawn algorithm) plus anything added via Context.Monitor, which
// is why this is a superset of snapshotChildren unless a child has been
// removed from it with Context.Unmonitor.
func (c *Cell) snapshotMonitoring() map[string]ref.Reference {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]ref.Reference, len(c.monitoring))
	for k, r := range c.monitoring {
		out[k] = r
	}
	return out
}

// addMonitoring records that this cell now monitors target. Called both
// for every spawned child (spawnChild) and from Context.Monitor for
// externally-monitored, non-child references.
func (c *Cell) addMonitoring(target ref.Reference) {
	c.mu.Lock()
	c.monitoring[target.Path().String()] = target
	c.mu.Unlock()
}

// removeMonitoring drops a previously monitored reference.
func (c *Cell) removeMonitoring(target ref.Reference) {
	c.mu.Lock()
	delete(c.monitoring, target.Path().String())
	c.mu.Unlock()
}

// Step performs at most one unit of work: it drains any pending system
// messages, then handles a single ordinary envelope. The busy latch
// guarantees no two goroutines are ever inside Step for the same cell at
// once; a failed acquisition is not lost work; release() re-enqueues the
// cell if anything is still pending.
func (c *Cell) Step() {
	if !atomic.CompareAndSwapInt32(&c.busy, 0, 1) {
		return
	}
	defer c.release()

	for {
		msg, ok := c.sysMailbox.pop()
		if !ok {
			break
		}
		c.handleSystem(msg)
	}

	if !c.canProcessMail() {
		return
	}

	env, ok := c.mailbox.pop()
	if !ok {
		return
	}
	c.deliver(env)
}

// release clears the busy latch and re-enqueues this cell if there is
// reason to run it again. A non-empty system mailbox always re-enqueues:
// it needs draining regardless of lifecycle state. A non-empty ordinary
// mailbox only re-enqueues while Running; while New or Failed, nothing
// will be delivered until a SysStart/SysRestart arrives, and that arrival
// enqueues the cell itself (EnqueueSystem always does), so gating here
// avoids spinning a worker in a tight requeue loop against a cell that
// cannot make progress yet.
func (c *Cell) release() {
	atomic.StoreInt32(&c.busy, 0)
	if c.sysMailbox.len() > 0 {
		c.system.scheduler.enqueue(c.self)
		return
	}
	if c.canProcessMail() && c.mailbox.len() > 0 {
		c.system.scheduler.enqueue(c.self)
	}
}

// EnqueueUser implements ref.Backend.
func (c *Cell) EnqueueUser(env ref.Envelope) {
	if c.isDead() {
		c.system.deadLetter(c.self.Path(), env)
		return
	}
	c.mailbox.push(env)
	c.system.scheduler.enqueue(c.self)
}

// EnqueueSystem implements ref.Backend.
func (c *Cell) EnqueueSystem(msg ref.SystemMessage) {
	c.sysMailbox.push(msg)
	c.system.scheduler.enqueue(c.self)
}

func (c *Cell) isDead() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == stateDead
}

// canProcessMail reports whether ordinary mail may be delivered right
// now. A New cell is waiting for its SysStart; a Failed one is waiting
// for the SysRestart its father will send once it decides to relaunch
// it. Both cases leave the pending envelope in the mailbox untouched;
// release() does not re-enqueue the cell for it, and the cell runs again
// when the SysStart/SysRestart that makes it Running enqueues it.
func (c *Cell) canProcessMail() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == stateRunning
}

// deliver dispatches one ordinary envelope. A panic here is bookkept by
// onFailure and then re-raised: it is the scheduler's worker loop, not
// this defer, that actually recovers and relaunches.
func (c *Cell) deliver(env ref.Envelope) {
	c.guardUserCode(func() {
		switch env.Control {
		case ref.ControlNone:
			ctx := &Context{cell: c, sender: env.Sender}
			c.behavior.Receive(env.Payload, ctx)
		case ref.ControlPoisonPill:
			c.father.EnqueueUser(ref.Envelope{Control: ref.ControlKillMe, Who: c.self})
		case ref.ControlTerminated:
			if tw, ok := c.behavior.(TerminationWatcher); ok {
				ctx := &Context{cell: c, sender: env.Who}
				tw.OnTermination(ctx)
			}
		case ref.ControlKillMe:
			c.removeChild(env.Who)
		}
	})
}

func (c *Cell) handleSystem(msg ref.SystemMessage) {
	switch msg.Kind {
	case ref.SysStart:
		c.runStart()
	case ref.SysRestart:
		c.runRestart()
	case ref.SysFailure:
		c.restartChild(msg.Child)
	case ref.SysWatch:
		c.addWatcher(msg.Watcher)
	case ref.SysUnwatch:
		c.removeWatcher(msg.Watcher)
	}
}

func (c *Cell) runStart() {
	c.guardUserCode(func() {
		c.mu.Lock()
		c.state = stateRunning
		c.mu.Unlock()
		if starter, ok := c.behavior.(Starter); ok {
			starter.OnStart(&Context{cell: c})
		}
	})
}

func (c *Cell) runRestart() {
	c.guardUserCode(func() {
		ctx := &Context{cell: c}
		if pre, ok := c.behavior.(PreRestarter); ok {
			pre.OnPreRestart(ctx)
		} else if stopper, ok := c.behavior.(Stopper); ok {
			stopper.OnStop()
		}
		c.behavior = c.props.fresh()
		c.mu.Lock()
		c.state = stateRunning
		c.mu.Unlock()
		if post, ok := c.behavior.(PostRestarter); ok {
			post.OnPostRestart(ctx)
		} else if starter, ok := c.behavior.(Starter); ok {
			starter.OnStart(ctx)
		}
	})
}

// guardUserCode runs fn, and on panic records the failure against this
// cell and lets the father decide whether to restart it, then re-panics
// so the scheduler's worker-level recover is the one that actually stops
// the unwind.
func (c *Cell) guardUserCode(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.onFailure(r)
			panic(r)
		}
	}()
	fn()
}

func (c *Cell) onFailure(cause interface{}) {
	c.mu.Lock()
	c.state = stateFailed
	c.mu.Unlock()
	c.system.logf("actor %s failed: %v", c.self, cause)
	c.father.EnqueueSystem(ref.SystemMessage{Kind: ref.SysFailure, Child: c.self})
}

// restartChild is run by a father on receiving SysFailure: it always
// restarts the named child (one-for-one), leaving siblings untouched.
func (c *Cell) restartChild(childRef ref.Reference) {
	target := c.lookupChild(childRef)
	if target == nil {
		return
	}
	target.sysMailbox.push(ref.SystemMessage{Kind: ref.SysRestart})
	c.system.scheduler.enqueue(target.self)
}

func (c *Cell) lookupChild(childRef ref.Reference) *Cell {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ch := range c.children {
		if ch.self.Equals(childRef) {
			return ch
		}
	}
	return nil
}

func (c *Cell) spawnChild(props Props, name string) (ref.Reference, error) {
	childPath, err := c.self.Path().Child(name)
	if err != nil {
		return ref.Reference{}, err
	}

	c.mu.Lock()
	if c.state == stateDead {
		c.mu.Unlock()
		return ref.Reference{}, fmt.Errorf("actorkit: cannot spawn %q under a dead cell", name)
	}
	if _, exists := c.children[name]; exists {
		c.mu.Unlock()
		return ref.Reference{}, fmt.Errorf("actorkit: child %q already exists", name)
	}
	child := newCell(c.system, childPath, c.self, name, props)
	c.children[name] = child
	c.monitoring[childPath.String()] = child.self
	c.mu.Unlock()

	c.system.resolver.register(childPath, child.self)
	child.sysMailbox.push(ref.SystemMessage{Kind: ref.SysStart})
	c.system.scheduler.enqueue(child.self)
	return child.self, nil
}

// stopChild removes and destroys child immediately. Called from within
// this cell's own Receive, so it never races with Step.
func (c *Cell) stopChild(child ref.Reference) {
	c.removeChild(child)
}

func (c *Cell) removeChild(childRef ref.Reference) {
	c.mu.Lock()
	var target *Cell
	for name, ch := range c.children {
		if ch.self.Equals(childRef) {
			target = ch
			delete(c.children, name)
			break
		}
	}
	if target != nil {
		delete(c.monitoring, target.self.Path().String())
	}
	c.mu.Unlock()
	if target == nil {
		return
	}
	target.destroy()
}

// destroy tears a cell and its entire subtree down: it runs the stop hook,
// recursively destroys children, and notifies watchers. Safe to call more
// than once.
func (c *Cell) destroy() {
	c.mu.Lock()
	if c.state == stateDead {
		c.mu.Unlock()
		return
	}
	c.state = stateDead
	children := make([]*Cell, 0, len(c.children))
	for _, ch := range c.children {
		children = append(children, ch)
	}
	c.children = make(map[string]*Cell)
	c.monitoring = make(map[string]ref.Reference)
	watchers := make([]ref.Reference, 0, len(c.watchers))
	for _, w := range c.watchers {
		watchers = append(watchers, w)
	}
	c.watchers = make(map[string]ref.Reference)
	c.mu.Unlock()

	func() {
		defer func() { recover() }()
		if stopper, ok := c.behavior.(Stopper); ok {
			stopper.OnStop()
		}
	}()

	for _, ch := range children {
		ch.destroy()
	}
	for _, w := range watchers {
		w.EnqueueUser(ref.Envelope{Control: ref.ControlTerminated, Who: c.self})
	}

	c.system.resolver.forget(c.self.Path())
}

func (c *Cell) addWatcher(w ref.Reference) {
	c.mu.Lock()
	c.watchers[w.Path().String()] = w
	c.mu.Unlock()
}

func (c *Cell) removeWatcher(w ref.Reference) {
	c.mu.Lock()
	delete(c.watchers, w.Path().String())
	c.mu.Unlock()
}
