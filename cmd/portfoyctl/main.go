package main

import (
	"os"

	"github.com/ramazansancar/stock-cost-calculator/cmd/portfoyctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
