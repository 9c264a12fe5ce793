// Command actorsh is a tiny demonstration CLI for actorkit: each
// subcommand boots its own System, exercises one corner of the library
// (spawn, tell/ask, or name resolution), and shuts the system down before
// exiting. There is no persistent service behind it and no cross-process
// transport; the distant reference variant remains a stub (see
// path.Distant), so this is a local walkthrough, not a client for a
// running actor system.
package main

import (
	"fmt"
	"os"

	"github.com/fergusinlondon/actorkit/cmd/actorsh/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
