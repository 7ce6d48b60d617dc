package main

import (
	"os"

	"github.com/logistics-sim/fleetsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
