package main

import (
	"os"

	"github.com/neuroglow/neuroglow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
