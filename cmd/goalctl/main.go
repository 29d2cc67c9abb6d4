package main

import (
	"os"

	_ "time/tzdata"

	"github.com/goalweek/goalweek/cmd/goalctl/cmd"
)

func main() {
	if err := cmd.Root().Execute(); err != nil {
		os.Exit(1)
	}
}
