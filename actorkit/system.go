// Package actorkit is an in-process actor runtime: supervised cells,
// addressed by path-based references, driven by a shared worker pool
// instead of one goroutine per actor.
package actorkit

import (
	"fmt"
	"time"

	"github.com/fergusinlondon/actorkit/logger"
	"github.com/fergusinlondon/actorkit/path"
	"github.com/fergusinlondon/actorkit/ref"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// System is the runtime facade: it owns the scheduler, the two top-level
// roots (/user and /system), the name resolver, and the dead-letter box.
// Build one with New and spawn actors under it with ActorOf.
type System struct {
	log logger.Logger

	scheduler   *scheduler
	resolver    *resolver
	deadletters *DeadLetterBox

	cthulhu    ref.Reference
	userRoot   *Cell
	systemRoot *Cell
}

type systemConfig struct {
	workers       int
	log           logger.Logger
	deadLetterCap int
}

func defaultConfig() *systemConfig {
	return &systemConfig{
		workers:       1,
		log:           logger.Discard,
		deadLetterCap: 256,
	}
}

// Option configures a System at construction time.
type Option func(*systemConfig)

// WithWorkerCount sets the number of scheduler workers. Non-positive
// values are ignored, leaving the default (1, per spec.md §5).
func WithWorkerCount(n int) Option {
	return func(c *systemConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger plugs in a Logger. A nil logger is ignored.
func WithLogger(l logger.Logger) Option {
	return func(c *systemConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// WithDeadLetterCapacity bounds how many dead letters are retained for
// inspection. Non-positive values are ignored, leaving the default (256).
func WithDeadLetterCapacity(n int) Option {
	return func(c *systemConfig) {
		if n > 0 {
			c.deadLetterCap = n
		}
	}
}

// rootBehavior is installed on the two well-known top-level roots. It
// hosts children and otherwise does nothing; nothing should ordinarily
// Tell a root directly.
type rootBehavior struct{}

func (rootBehavior) Receive(interface{}, *Context) {}

// New builds a System: its root sentinel, its /user and /system roots,
// the name resolver actor, and a running scheduler worker pool.
func New(opts ...Option) (*System, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	sys := &System{log: cfg.log}
	sys.scheduler = newScheduler(cfg.log)
	sys.deadletters = newDeadLetterBox(cfg.deadLetterCap, cfg.log)

	rootPath := path.MustLocal("/")
	sys.cthulhu = ref.NewCthulhu(rootPath, sys.emergencyStop)

	systemPath := path.MustLocal("/system")
	userPath := path.MustLocal("/user")

	sys.systemRoot = newCell(sys, systemPath, sys.cthulhu, "system", PropsFromFunc(func() Behavior { return rootBehavior{} }))
	sys.userRoot = newCell(sys, userPath, sys.cthulhu, "user", PropsFromFunc(func() Behavior { return rootBehavior{} }))

	for _, c := range []*Cell{sys.systemRoot, sys.userRoot} {
		c.sysMailbox.push(ref.SystemMessage{Kind: ref.SysStart})
	}

	// Spec.md §4.6 step 4: spawn the configured worker count before the
	// resolver (step 5), which needs a running pool to process its own
	// Start message.
	sys.scheduler.spawnWorkers(cfg.workers)
	sys.scheduler.enqueue(sys.systemRoot.self)
	sys.scheduler.enqueue(sys.userRoot.self)

	resolverPath, err := systemPath.Child("resolver")
	if err != nil {
		return nil, err
	}
	resolverCell := newCell(sys, resolverPath, sys.systemRoot.self, "resolver", PropsFromFunc(newResolverBehavior))
	sys.systemRoot.children["resolver"] = resolverCell
	sys.systemRoot.monitoring[resolverPath.String()] = resolverCell.self
	sys.resolver = &resolver{cellRef: resolverCell.self, system: sys}

	resolverCell.sysMailbox.push(ref.SystemMessage{Kind: ref.SysStart})
	sys.scheduler.enqueue(resolverCell.self)

	sys.resolver.register(systemPath, sys.systemRoot.self)
	sys.resolver.register(userPath, sys.userRoot.self)
	// The resolver itself is the one bootstrap exception (spec §4.5, I6):
	// every other spawned cell is reported to it, but it is never added
	// to its own table.

	return sys, nil
}

// SpawnWorkers grows the scheduler's worker pool by n goroutines.
func (sys *System) SpawnWorkers(n int) {
	sys.scheduler.spawnWorkers(n)
}

// StopWorkers asks up to n currently-running workers to exit once they
// next go idle.
func (sys *System) StopWorkers(n int) {
	sys.scheduler.stopWorkers(n)
}

// ActorOf spawns a new actor under /user with the given name and returns
// its reference.
func (sys *System) ActorOf(props Props, name string) (ref.Reference, error) {
	return sys.userRoot.spawnChild(props, name)
}

// SystemActorOf spawns a new actor under /system. Intended for
// infrastructure actors (metrics collectors, bridges) rather than
// application logic.
func (sys *System) SystemActorOf(props Props, name string) (ref.Reference, error) {
	return sys.systemRoot.spawnChild(props, name)
}

// Tell sends payload to to without waiting for a reply. There is no
// sender context outside of an actor, so to cannot Ask back to the
// caller via Context.Sender.
func (sys *System) Tell(to ref.Reference, payload interface{}) {
	to.EnqueueUser(ref.Envelope{Payload: payload})
}

// Ask sends payload to to and blocks the calling goroutine until a reply
// arrives or timeout elapses. A zero-value to is rejected at once; a
// target whose cell is already dead gets no reply, so the wait runs until
// timeout.
func (sys *System) Ask(to ref.Reference, payload interface{}, timeout time.Duration) (interface{}, error) {
	return ask(sys, to, payload, timeout)
}

// Identify resolves p to a reference via the name resolver.
func (sys *System) Identify(p path.Path, timeout time.Duration) (ref.Reference, error) {
	return sys.identify(ref.Reference{}, p, timeout)
}

// DeadLetters exposes the bounded diagnostic record of undeliverable mail.
func (sys *System) DeadLetters() *DeadLetterBox {
	return sys.deadletters
}

// Shutdown tears the system down: it drops the two root references, which
// cascades cell destruction bottom-up through every children map (running
// each root's stop hooks and recursively destroying descendants, the
// resolver included, since it lives under /system), then stops the
// scheduler's worker pool and waits for in-flight steps to finish. The two
// roots have disjoint subtrees, so their teardown runs concurrently via an
// errgroup rather than one after the other. It does not drain pending
// mailboxes, and it is idempotent: a second call finds every cell already
// dead and the scheduler already closed, and returns immediately.
func (sys *System) Shutdown() {
	var g errgroup.Group
	g.Go(func() error {
		sys.userRoot.destroy()
		return nil
	})
	g.Go(func() error {
		sys.systemRoot.destroy()
		return nil
	})
	g.Wait() // errors are impossible here; destroy() never returns one

	sys.scheduler.shutdown()
}

func (sys *System) identify(from ref.Reference, p path.Path, timeout time.Duration) (ref.Reference, error) {
	return sys.resolver.lookup(from, p, timeout)
}

func (sys *System) deadLetter(to path.Path, env ref.Envelope) {
	sys.deadletters.record(to, env)
}

func (sys *System) logf(format string, args ...interface{}) {
	sys.log.Println(fmt.Sprintf(format, args...))
}

// tempPath mints a path for a throwaway reply-sink. It lives under
// /system (not /user) because it is runtime machinery, not application
// state, and NewLocal only accepts names rooted at /user or /system.
func (sys *System) tempPath() (path.Path, error) {
	return path.NewLocal("/system/temp/" + uuid.NewString())
}

// emergencyStop is wired as the root sentinel's onTouched callback: any
// message reaching the sentinel means a reference escaped its owner's
// supervision tree entirely, which this runtime treats as unrecoverable.
// The actual scheduler teardown runs on its own goroutine since this is
// invoked from inside a worker's Step call.
func (sys *System) emergencyStop() {
	sys.log.Println("actorkit: message delivered to root sentinel, shutting down")
	go sys.Shutdown()
}
