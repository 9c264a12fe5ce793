package actorkit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestFIFOHoldsUnderSingleProducer checks, for arbitrary message counts
// and an arbitrary number of scheduler workers, that a single producer
// telling a cell a run of integers always sees them delivered in the
// order sent. Busy-latch serialisation is what this property is really
// exercising: however many workers race to pick the cell up, only one is
// ever inside Step at a time.
func TestFIFOHoldsUnderSingleProducer(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		workers := rapid.IntRange(1, 8).Draw(t, "workers")
		count := rapid.IntRange(0, 200).Draw(t, "count")

		sys, err := New(WithWorkerCount(workers))
		require.NoError(t, err)
		defer sys.Shutdown()

		rec := &recordingBehavior{}
		target, err := sys.ActorOf(PropsFromFunc(func() Behavior { return rec }), "producer")
		require.NoError(t, err)

		for i := 0; i < count; i++ {
			sys.Tell(target, i)
		}

		require.Eventually(t, func() bool {
			return len(rec.snapshot()) == count
		}, 2*time.Second, time.Millisecond)

		got := rec.snapshot()
		for i, v := range got {
			require.Equal(t, i, v)
		}
	})
}

// TestRestartAlwaysLeavesCellLiveAndMailIntact draws a random number of
// panics and confirms the cell restarts every time (rather than getting
// stuck Failed) and that a message sent once the final restart has
// happened is still eventually delivered to the fresh behavior instance.
func TestRestartAlwaysLeavesCellLiveAndMailIntact(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		panics := rapid.IntRange(1, 5).Draw(t, "panics")

		sys, err := New(WithWorkerCount(2))
		require.NoError(t, err)
		defer sys.Shutdown()

		rec := &restartRecorder{}
		target, err := sys.ActorOf(PropsFromFunc(func() Behavior { return &panicsOnce{rec: rec} }), "flaky-property")
		require.NoError(t, err)

		require.Eventually(t, func() bool { return rec.startCount() == 1 }, time.Second, time.Millisecond)

		for i := 0; i < panics; i++ {
			sys.Tell(target, "boom")
			require.Eventually(t, func() bool { return rec.startCount() == i+2 }, time.Second, time.Millisecond)
		}

		sys.Tell(target, "still-alive")
		require.Eventually(t, func() bool {
			got := rec.snapshot()
			return len(got) == 1 && got[0] == "still-alive"
		}, time.Second, time.Millisecond)
	})
}
