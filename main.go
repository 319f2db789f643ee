package main

import (
	"os"

	"github.com/phasefield/dnsinit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
