package commands

import (
	"fmt"

	"github.com/fergusinlondon/actorkit/actorkit"
	"github.com/spf13/cobra"
)

var spawnCmd = &cobra.Command{
	Use:   "spawn NAME",
	Short: "Spawn an actor under /user and print its path",
	Args:  cobra.ExactArgs(1),
	RunE:  runSpawn,
}

type quietBehavior struct{}

func (quietBehavior) Receive(interface{}, *actorkit.Context) {}

func runSpawn(cmd *cobra.Command, args []string) error {
	name := args[0]

	sys, err := actorkit.New(actorkit.WithWorkerCount(workers))
	if err != nil {
		return err
	}
	defer sys.Shutdown()

	ref, err := sys.ActorOf(actorkit.PropsFromFunc(func() actorkit.Behavior {
		return quietBehavior{}
	}), name)
	if err != nil {
		return fmt.Errorf("spawn %q: %w", name, err)
	}

	fmt.Printf("spawned %s\n", ref.Path())
	return nil
}
