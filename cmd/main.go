package main

import (
	"os"

	"ride-analytics-backend/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
