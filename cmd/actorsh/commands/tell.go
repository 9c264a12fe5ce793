package commands

import (
	"fmt"
	"time"

	"github.com/fergusinlondon/actorkit/actorkit"
	"github.com/spf13/cobra"
)

var askTimeout time.Duration

var tellCmd = &cobra.Command{
	Use:   "tell MESSAGE",
	Short: "Spawn an echo actor, ask it MESSAGE, and print the reply",
	Args:  cobra.ExactArgs(1),
	RunE:  runTell,
}

func init() {
	tellCmd.Flags().DurationVar(&askTimeout, "timeout", 2*time.Second, "ask timeout")
}

type echoBehavior struct{}

func (echoBehavior) Receive(payload interface{}, ctx *actorkit.Context) {
	ctx.Tell(ctx.Sender(), payload)
}

func runTell(cmd *cobra.Command, args []string) error {
	message := args[0]

	sys, err := actorkit.New(actorkit.WithWorkerCount(workers))
	if err != nil {
		return err
	}
	defer sys.Shutdown()

	echo, err := sys.ActorOf(actorkit.PropsFromFunc(func() actorkit.Behavior {
		return echoBehavior{}
	}), "echo")
	if err != nil {
		return err
	}

	reply, err := sys.Ask(echo, message, askTimeout)
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	fmt.Printf("echo replied: %v\n", reply)
	return nil
}
