package main

import (
	"os"

	"github.com/maintops/crewsched/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
