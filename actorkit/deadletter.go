package actorkit

import (
	"fmt"
	"sync"

	"github.com/fergusinlondon/actorkit/logger"
	"github.com/fergusinlondon/actorkit/path"
	"github.com/fergusinlondon/actorkit/ref"
)

// DeadLetter records one envelope that could not be delivered because its
// destination cell was already dead.
type DeadLetter struct {
	To      path.Path
	Payload interface{}
	Sender  ref.Reference
}

// DeadLetterBox is a bounded diagnostic sink for mail that arrives after
// its destination is gone. It never blocks delivery and never grows
// without bound: once full, the oldest entry is dropped to make room for
// the newest.
type DeadLetterBox struct {
	log logger.Logger

	mu    sync.Mutex
	items []DeadLetter
	cap   int
}

func newDeadLetterBox(capacity int, log logger.Logger) *DeadLetterBox {
	if capacity <= 0 {
		capacity = 256
	}
	return &DeadLetterBox{log: log, cap: capacity}
}

func (d *DeadLetterBox) record(to path.Path, env ref.Envelope) {
	d.log.Println(fmt.Sprintf("dead letter: %s could not deliver %v", to, env.Payload))

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.items) >= d.cap {
		d.items = d.items[1:]
	}
	d.items = append(d.items, DeadLetter{To: to, Payload: env.Payload, Sender: env.Sender})
}

// Recent returns a snapshot of the most recently recorded dead letters,
// oldest first.
func (d *DeadLetterBox) Recent() []DeadLetter {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DeadLetter, len(d.items))
	copy(out, d.items)
	return out
}

// Len reports how many dead letters are currently retained.
func (d *DeadLetterBox) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}
