package actorkit

import (
	"testing"
	"time"

	"github.com/fergusinlondon/actorkit/path"
	"github.com/fergusinlondon/actorkit/ref"
	"github.com/stretchr/testify/require"
)

func TestIdentifyResolvesSpawnedActor(t *testing.T) {
	sys := newTestSystem(t)

	ref1, err := sys.ActorOf(PropsFromFunc(func() Behavior { return echoBehavior{} }), "named")
	require.NoError(t, err)

	resolved, err := sys.Identify(path.MustLocal("/user/named"), time.Second)
	require.NoError(t, err)
	require.True(t, resolved.Equals(ref1))
}

func TestIdentifyUnknownPathFails(t *testing.T) {
	sys := newTestSystem(t)

	_, err := sys.Identify(path.MustLocal("/user/nobody-here"), 200*time.Millisecond)
	require.ErrorIs(t, err, ErrUnknownName)
}

func TestActorOfRejectsDuplicateNames(t *testing.T) {
	sys := newTestSystem(t)

	_, err := sys.ActorOf(PropsFromFunc(func() Behavior { return echoBehavior{} }), "dup")
	require.NoError(t, err)

	_, err = sys.ActorOf(PropsFromFunc(func() Behavior { return echoBehavior{} }), "dup")
	require.Error(t, err)
}

func TestDeadLettersRecordMailToDestroyedActor(t *testing.T) {
	sys := newTestSystem(t)

	stopped := make(chan struct{}, 1)
	target, err := sys.ActorOf(PropsFromFunc(func() Behavior { return &stopSignalling{ch: stopped} }), "ephemeral")
	require.NoError(t, err)

	target.EnqueueUser(ref.Envelope{Control: ref.ControlPoisonPill})
	<-stopped

	// Give destroy() time to flip the cell to dead before we probe it.
	require.Eventually(t, func() bool {
		sys.Tell(target, "too late")
		return sys.DeadLetters().Len() > 0
	}, time.Second, 5*time.Millisecond)
}
