package main

import (
	"os"

	"github.com/vnda/vnda-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
