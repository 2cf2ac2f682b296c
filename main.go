package main

import (
	"os"

	"github.com/ankigen/ankigen/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
