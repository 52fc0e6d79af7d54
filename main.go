package main

import (
	"os"

	"github.com/ktnk/toeiq/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
