// Command rbxdom inspects and round trips binary Roblox model and place
// files.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
