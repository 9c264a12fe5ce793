package actorkit

import (
	"fmt"
	"time"

	"github.com/fergusinlondon/actorkit/ref"
)

// ask implements the blocking request/reply pattern: it builds a
// throwaway reply-sink, sends payload to to with the sink as sender, and
// waits for the sink to complete. The calling goroutine blocks; called
// from inside a Receive, that goroutine is the scheduler worker running
// the calling cell, which stays occupied until the reply or the timeout.
func ask(system *System, to ref.Reference, payload interface{}, timeout time.Duration) (interface{}, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("actorkit: ask target is not a valid reference")
	}

	p, err := system.tempPath()
	if err != nil {
		return nil, err
	}

	sink := newReplySink(system.log)
	sinkRef := ref.New(p, ref.KindReplySink, sink)
	sink.setSelf(sinkRef)

	to.EnqueueUser(ref.Envelope{Payload: payload, Sender: sinkRef})
	return sink.await(timeout)
}
