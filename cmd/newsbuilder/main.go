package main

import (
	"os"

	"github.com/ariel-frischer/newsbuilder/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitFailure)
	}
}
