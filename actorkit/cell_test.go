package actorkit

import (
	"sync"
	"testing"
	"time"

	"github.com/fergusinlondon/actorkit/ref"
	"github.com/stretchr/testify/require"
)

// recordingBehavior appends every payload it receives to a shared,
// mutex-guarded slice so tests can assert delivery order without racing
// the scheduler's worker goroutines.
type recordingBehavior struct {
	mu       sync.Mutex
	received []interface{}
	starts   int
	restarts int
}

func (b *recordingBehavior) Receive(payload interface{}, ctx *Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.received = append(b.received, payload)
}

func (b *recordingBehavior) OnStart(ctx *Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.starts++
}

func (b *recordingBehavior) snapshot() []interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]interface{}, len(b.received))
	copy(out, b.received)
	return out
}

func newTestSystem(t *testing.T) *System {
	t.Helper()
	sys, err := New(WithWorkerCount(4))
	require.NoError(t, err)
	t.Cleanup(sys.Shutdown)
	return sys
}

func TestTellDeliversInFIFOOrder(t *testing.T) {
	sys := newTestSystem(t)
	b := &recordingBehavior{}
	target, err := sys.ActorOf(PropsFromFunc(func() Behavior { return b }), "fifo")
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		sys.Tell(target, i)
	}

	require.Eventually(t, func() bool {
		return len(b.snapshot()) == 50
	}, time.Second, time.Millisecond)

	got := b.snapshot()
	for i, v := range got {
		require.Equal(t, i, v)
	}
}

// restartRecorder is shared across every behavior instance a single
// Props produces, so a test can observe how many fresh instances were
// constructed (one per restart) independent of which instance is
// currently live.
type restartRecorder struct {
	mu      sync.Mutex
	starts  int
	echoed  []interface{}
}

func (r *restartRecorder) onStart() {
	r.mu.Lock()
	r.starts++
	r.mu.Unlock()
}

func (r *restartRecorder) onReceive(payload interface{}) {
	r.mu.Lock()
	r.echoed = append(r.echoed, payload)
	r.mu.Unlock()
}

func (r *restartRecorder) startCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.starts
}

func (r *restartRecorder) snapshot() []interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]interface{}, len(r.echoed))
	copy(out, r.echoed)
	return out
}

// panicsOnce panics the first time any instance receives "boom"; a fresh
// instance (tripped starts false) is installed by the restart that
// follows, so a second "boom" would panic again.
type panicsOnce struct {
	rec     *restartRecorder
	tripped bool
}

func (p *panicsOnce) OnStart(ctx *Context) {
	p.rec.onStart()
}

func (p *panicsOnce) Receive(payload interface{}, ctx *Context) {
	if payload == "boom" {
		p.tripped = true
		panic("boom")
	}
	p.rec.onReceive(payload)
}

func TestRestartInstallsFreshBehaviorAndResumesMail(t *testing.T) {
	sys := newTestSystem(t)
	rec := &restartRecorder{}

	target, err := sys.ActorOf(PropsFromFunc(func() Behavior { return &panicsOnce{rec: rec} }), "flaky")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return rec.startCount() == 1 }, time.Second, time.Millisecond)

	sys.Tell(target, "boom")
	sys.Tell(target, "after")

	require.Eventually(t, func() bool { return rec.startCount() == 2 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		got := rec.snapshot()
		return len(got) == 1 && got[0] == "after"
	}, time.Second, time.Millisecond)
}

func TestPoisonPillRemovesChild(t *testing.T) {
	sys := newTestSystem(t)

	stopped := make(chan struct{}, 1)
	child, err := sys.ActorOf(PropsFromFunc(func() Behavior { return &stopSignalling{ch: stopped} }), "poisoned")
	require.NoError(t, err)

	child.EnqueueUser(ref.Envelope{Control: ref.ControlPoisonPill})

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("expected OnStop to fire after poison pill")
	}
}

type stopSignalling struct {
	ch chan struct{}
}

func (s *stopSignalling) Receive(interface{}, *Context) {}

func (s *stopSignalling) OnStop() {
	s.ch <- struct{}{}
}

// childSpawningBehavior spawns one child on start and reports Children()
// and Monitored() back over a channel once asked to.
type childSpawningBehavior struct {
	childrenCh  chan map[string]ref.Reference
	monitoredCh chan map[string]ref.Reference
}

func (b *childSpawningBehavior) OnStart(ctx *Context) {
	_, err := ctx.Spawn(PropsFromFunc(func() Behavior { return &stopSignalling{ch: make(chan struct{}, 1)} }), "kid")
	if err != nil {
		panic(err)
	}
}

func (b *childSpawningBehavior) Receive(payload interface{}, ctx *Context) {
	switch payload.(type) {
	case requestChildren:
		b.childrenCh <- ctx.Children()
	case requestMonitored:
		b.monitoredCh <- ctx.Monitored()
	}
}

type requestChildren struct{}
type requestMonitored struct{}

func TestChildrenAndMonitoredReflectSpawnedChild(t *testing.T) {
	sys := newTestSystem(t)

	childrenCh := make(chan map[string]ref.Reference, 1)
	monitoredCh := make(chan map[string]ref.Reference, 1)
	target, err := sys.ActorOf(PropsFromFunc(func() Behavior {
		return &childSpawningBehavior{childrenCh: childrenCh, monitoredCh: monitoredCh}
	}), "parent-with-child")
	require.NoError(t, err)

	sys.Tell(target, requestChildren{})
	children := <-childrenCh
	require.Len(t, children, 1)

	sys.Tell(target, requestMonitored{})
	monitored := <-monitoredCh
	require.Len(t, monitored, 1)

	for path := range children {
		_, ok := monitored[path]
		require.True(t, ok, "monitored set must be a superset of children")
	}
}

func TestAskRoundTrips(t *testing.T) {
	sys := newTestSystem(t)

	echo, err := sys.ActorOf(PropsFromFunc(func() Behavior { return echoBehavior{} }), "echo")
	require.NoError(t, err)

	reply, err := sys.Ask(echo, "hello", time.Second)
	require.NoError(t, err)
	require.Equal(t, "hello", reply)
}

type echoBehavior struct{}

func (echoBehavior) Receive(payload interface{}, ctx *Context) {
	ctx.Tell(ctx.Sender(), payload)
}

func TestAskTimesOutWhenNoReply(t *testing.T) {
	sys := newTestSystem(t)

	silent, err := sys.ActorOf(PropsFromFunc(func() Behavior { return silentBehavior{} }), "silent")
	require.NoError(t, err)

	_, err = sys.Ask(silent, "hello", 20*time.Millisecond)
	require.ErrorIs(t, err, ErrAskTimeout)
}

type silentBehavior struct{}

func (silentBehavior) Receive(interface{}, *Context) {}
