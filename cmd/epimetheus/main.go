// Command epimetheus is the CLI entry point; see cmd.Run for the
// subcommand dispatcher.
package main

import "github.com/SebastianDall/epimetheus/cmd/epimetheus/cmd"

func main() {
	cmd.Run()
}
