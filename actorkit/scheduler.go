package actorkit

import (
	"fmt"
	"sync"

	"github.com/fergusinlondon/actorkit/logger"
	"github.com/fergusinlondon/actorkit/ref"
)

// scheduler is the global run-queue and worker pool. Cells never own a
// goroutine of their own; they are enqueued here and a free worker calls
// Step on them. A worker that recovers from a panic immediately goes
// around its loop again rather than exiting, the same relaunch idiom the
// teacher's Supervisor.Run applies one level up (a worker is never torn
// down by a single actor's failure).
//
// Workers are not started by newScheduler; callers grow and shrink the
// pool explicitly with spawnWorkers/stopWorkers, matching spec.md §6's
// System::spawn_workers(n)/System::stop_workers(n) surface.
type scheduler struct {
	log logger.Logger

	mu            sync.Mutex
	cond          *sync.Cond
	queue         []ref.Reference
	closed        bool
	stopRequested int
	running       int

	wg sync.WaitGroup
}

func newScheduler(log logger.Logger) *scheduler {
	s := &scheduler{log: log}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// spawnWorkers adds n workers to the pool.
func (s *scheduler) spawnWorkers(n int) {
	s.mu.Lock()
	s.running += n
	s.mu.Unlock()
	for i := 0; i < n; i++ {
		s.wg.Add(1)
		go s.runWorker()
	}
}

// stopWorkers asks up to n currently-running workers to exit once they
// next become idle; it does not interrupt a worker mid-Step.
func (s *scheduler) stopWorkers(n int) {
	s.mu.Lock()
	if n > s.running {
		n = s.running
	}
	s.stopRequested += n
	s.running -= n
	s.mu.Unlock()
	s.cond.Broadcast()
}

// enqueue schedules r for at most one Step call. Duplicate enqueues of a
// cell already pending or already running are harmless: Step's busy
// latch turns an overlapping call into a no-op, a later extra call finds
// nothing to do or handles the next envelope, and release() re-enqueues
// if work remains.
func (s *scheduler) enqueue(r ref.Reference) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, r)
	s.mu.Unlock()
	s.cond.Signal()
}

func (s *scheduler) dequeue() (ref.Reference, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		if s.closed {
			return ref.Reference{}, false
		}
		if s.stopRequested > 0 {
			s.stopRequested--
			return ref.Reference{}, false
		}
		if len(s.queue) > 0 {
			r := s.queue[0]
			s.queue = s.queue[1:]
			return r, true
		}
		s.cond.Wait()
	}
}

func (s *scheduler) runWorker() {
	defer s.wg.Done()
	for {
		r, ok := s.dequeue()
		if !ok {
			return
		}
		s.runStep(r)
	}
}

// runStep is where a panic re-raised by a Cell's own bookkeeping defer is
// finally swallowed. The cell itself has already marked its state Failed
// and notified its father by the time we get here; this defer exists only
// to keep the worker goroutine alive.
func (s *scheduler) runStep(r ref.Reference) {
	defer func() {
		if rec := recover(); rec != nil {
			s.log.Println(fmt.Sprintf("scheduler: recovered panic delivering to %s: %v", r, rec))
		}
	}()
	r.Step()
}

// shutdown stops accepting work and waits for every worker to drain its
// current step and exit.
func (s *scheduler) shutdown() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cond.Broadcast()
	s.wg.Wait()
}
