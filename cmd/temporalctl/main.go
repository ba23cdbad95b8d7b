package main

import (
	"fmt"
	"os"

	"github.com/rob-gra/tempora/cmd/temporalctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
