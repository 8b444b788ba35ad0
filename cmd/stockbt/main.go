package main

import (
	"os"

	"github.com/tradelab/stockbt/cmd/stockbt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
