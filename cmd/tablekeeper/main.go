package main

import (
	"os"

	"github.com/solatis/tablekeeper/cmd/tablekeeper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
