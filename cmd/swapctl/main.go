package main

import (
	"os"

	"github.com/bimakw/aptos-dex-aggregator/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		cli.PrintError(err)
		os.Exit(1)
	}
}
