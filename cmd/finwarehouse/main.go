// Package main is the entry point for finwarehouse.
package main

import (
	"fmt"
	"os"

	"finwarehouse/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
