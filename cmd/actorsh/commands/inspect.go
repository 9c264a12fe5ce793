package commands

import (
	"fmt"
	"time"

	"github.com/fergusinlondon/actorkit/actorkit"
	"github.com/fergusinlondon/actorkit/path"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect NAME",
	Short: "Spawn an actor and report whether the name resolver can find it",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	name := args[0]

	sys, err := actorkit.New(actorkit.WithWorkerCount(workers))
	if err != nil {
		return err
	}
	defer sys.Shutdown()

	if _, err := sys.ActorOf(actorkit.PropsFromFunc(func() actorkit.Behavior {
		return quietBehavior{}
	}), name); err != nil {
		return err
	}

	target := path.MustLocal("/user/" + name)
	resolved, err := sys.Identify(target, time.Second)
	if err != nil {
		fmt.Printf("%s: not resolvable (%v)\n", target, err)
		return nil
	}

	fmt.Printf("%s: resolved to %s\n", target, resolved.Path())
	fmt.Printf("dead letters so far: %d\n", sys.DeadLetters().Len())
	return nil
}
