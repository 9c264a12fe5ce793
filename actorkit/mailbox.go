package actorkit

import (
	"sync"

	"github.com/fergusinlondon/actorkit/ref"
)

// mailbox is a simple unbounded FIFO guarded by a short-held lock: a
// mailbox-lock held only long enough to push or pop one envelope. There is
// no bound; local delivery always succeeds.
type mailbox struct {
	mu    sync.Mutex
	items []ref.Envelope
}

func (m *mailbox) push(env ref.Envelope) {
	m.mu.Lock()
	m.items = append(m.items, env)
	m.mu.Unlock()
}

func (m *mailbox) pop() (ref.Envelope, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.items) == 0 {
		return ref.Envelope{}, false
	}
	env := m.items[0]
	m.items = m.items[1:]
	return env, true
}

func (m *mailbox) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// snapshot returns a copy of the pending envelopes in order, without
// draining them. Nothing in the package calls it at present.
func (m *mailbox) snapshot() []ref.Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ref.Envelope, len(m.items))
	copy(out, m.items)
	return out
}

// sysMailbox is the same discipline applied to system messages, which
// always preempt the ordinary mailbox.
type sysMailbox struct {
	mu    sync.Mutex
	items []ref.SystemMessage
}

func (m *sysMailbox) push(msg ref.SystemMessage) {
	m.mu.Lock()
	m.items = append(m.items, msg)
	m.mu.Unlock()
}

func (m *sysMailbox) pop() (ref.SystemMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.items) == 0 {
		return ref.SystemMessage{}, false
	}
	msg := m.items[0]
	m.items = m.items[1:]
	return msg, true
}

func (m *sysMailbox) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
