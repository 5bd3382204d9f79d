package main

import (
	"os"

	"StockScope/cmd/stockscope/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
