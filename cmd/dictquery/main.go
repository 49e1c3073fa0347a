package main

import (
	"os"

	"github.com/satishbabariya/dictquery/cmd/dictquery/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
