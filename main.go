package main

import (
	"os"

	"github.com/opsdash/mcsync/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
