package main

import (
	"os"

	"github.com/joshuastenhouse/rscreporting-go/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
