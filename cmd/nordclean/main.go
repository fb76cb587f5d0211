package main

import (
	"os"

	"nordclean/cmd/nordclean/cmd"
)

// ENTRY POINT

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
