package actorkit

import (
	"fmt"
	"sync"
	"time"

	"github.com/fergusinlondon/actorkit/logger"
	"github.com/fergusinlondon/actorkit/ref"
)

// ForwardResult, when sent to a ReplySink instead of the real answer,
// configures the sink to relay its eventual completion value on to To as
// an ordinary Tell, in addition to completing the sink itself.
type ForwardResult struct {
	To ref.Reference
}

// ForwardAsCompletion configures a sink to deliver its completion value
// to another sink, where it completes that sink. The value is sent as an
// ordinary user envelope, exactly as ForwardResult sends it; the two
// markers are handled identically.
type ForwardAsCompletion struct {
	To ref.Reference
}

// ApplyThen configures a sink to run Fn over its completion value and
// deliver the result to To as an ordinary Tell.
type ApplyThen struct {
	Fn func(interface{}) interface{}
	To ref.Reference
}

type composeKind int

const (
	composeNone composeKind = iota
	composeForwardResult
	composeForwardAsCompletion
	composeApplyThen
)

// ReplySink is a one-shot future target built by ask purely to receive
// the single reply an Ask is waiting for. It is not a cell and is not
// added to any cell's children. It satisfies ref.Backend
// directly and completes synchronously in EnqueueUser, never entering the
// scheduler's run queue.
//
// Any Control envelope or any system message delivered to a sink is a
// programmer error: sinks are never supervised children and never receive
// lifecycle traffic.
type ReplySink struct {
	self ref.Reference
	log  logger.Logger

	mu            sync.Mutex
	done          bool
	result        interface{}
	ch            chan struct{}
	composeKind   composeKind
	composeTarget ref.Reference
	composeFn     func(interface{}) interface{}
}

func newReplySink(log logger.Logger) *ReplySink {
	if log == nil {
		log = logger.Discard
	}
	return &ReplySink{ch: make(chan struct{}), log: log}
}

func (s *ReplySink) setSelf(r ref.Reference) { s.self = r }

// EnqueueUser implements ref.Backend. A recognised composition marker
// configures forwarding without completing the sink; anything else is
// the answer.
func (s *ReplySink) EnqueueUser(env ref.Envelope) {
	if env.Control != ref.ControlNone {
		panic("actorkit: control message delivered to a reply sink")
	}

	switch v := env.Payload.(type) {
	case ForwardResult:
		s.configure(composeForwardResult, v.To, nil)
	case ForwardAsCompletion:
		s.configure(composeForwardAsCompletion, v.To, nil)
	case ApplyThen:
		s.configure(composeApplyThen, v.To, v.Fn)
	default:
		s.complete(env.Payload)
	}
}

// EnqueueSystem implements ref.Backend; sinks never receive system
// traffic.
func (s *ReplySink) EnqueueSystem(ref.SystemMessage) {
	panic("actorkit: system message delivered to a reply sink")
}

// Step implements ref.Backend as a no-op: a sink never runs on a scheduler
// worker.
func (s *ReplySink) Step() {}

func (s *ReplySink) configure(kind composeKind, to ref.Reference, fn func(interface{}) interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.composeKind = kind
	s.composeTarget = to
	s.composeFn = fn
}

func (s *ReplySink) complete(payload interface{}) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		s.log.Println(fmt.Sprintf("reply sink %s completed twice, dropping: %v", s.self, payload))
		return
	}
	s.done = true
	s.result = payload
	kind, target, fn := s.composeKind, s.composeTarget, s.composeFn
	s.mu.Unlock()
	close(s.ch)

	switch kind {
	case composeForwardResult:
		target.EnqueueUser(ref.Envelope{Payload: payload, Sender: s.self})
	case composeForwardAsCompletion:
		target.EnqueueUser(ref.Envelope{Payload: payload, Sender: s.self})
	case composeApplyThen:
		target.EnqueueUser(ref.Envelope{Payload: fn(payload), Sender: s.self})
	}
}

// await blocks the calling goroutine until the sink completes or timeout
// elapses.
func (s *ReplySink) await(timeout time.Duration) (interface{}, error) {
	select {
	case <-s.ch:
		s.mu.Lock()
		result := s.result
		s.mu.Unlock()
		return result, nil
	case <-time.After(timeout):
		return nil, ErrAskTimeout
	}
}
