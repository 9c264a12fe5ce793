package actorkit

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/fergusinlondon/actorkit/logger"
	"github.com/fergusinlondon/actorkit/path"
	"github.com/fergusinlondon/actorkit/ref"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type countingBackend struct {
	steps   int32
	panicOn int32
}

func (b *countingBackend) EnqueueUser(ref.Envelope)      {}
func (b *countingBackend) EnqueueSystem(ref.SystemMessage) {}

func (b *countingBackend) Step() {
	n := atomic.AddInt32(&b.steps, 1)
	if n == b.panicOn {
		panic("scheduled step panic")
	}
}

func TestSchedulerShutdownLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newScheduler(logger.Discard)
	s.spawnWorkers(3)
	s.shutdown()
}

func TestSchedulerWorkerSurvivesPanicAndKeepsRunning(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newScheduler(logger.Discard)
	s.spawnWorkers(1)
	defer s.shutdown()

	b := &countingBackend{panicOn: 2}
	r := ref.New(path.MustLocal("/user/counting"), ref.KindCell, b)

	s.enqueue(r)
	s.enqueue(r)
	s.enqueue(r)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&b.steps) == 3
	}, time.Second, time.Millisecond, "worker should keep processing after a panicking step")
}

func TestSchedulerStopWorkersThenSpawnWorkersRestoresCapacity(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := newScheduler(logger.Discard)
	s.spawnWorkers(2)
	defer s.shutdown()

	s.stopWorkers(2)

	b := &countingBackend{}
	r := ref.New(path.MustLocal("/user/stopped"), ref.KindCell, b)
	s.enqueue(r)

	// No workers left; the step must not run until capacity is restored.
	time.Sleep(20 * time.Millisecond)
	require.EqualValues(t, 0, atomic.LoadInt32(&b.steps))

	s.spawnWorkers(1)
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&b.steps) == 1
	}, time.Second, time.Millisecond)
}
