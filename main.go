// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for PassForge.
//
// Usage:
//
//	go run . [flags]
//	./passforge [flags]
//
// This launches the PassForge CLI. See --help for options.
package main

import (
	"log"
	"os"

	"github.com/toeirei/passforge/ui/cli"
)

// main is the entrypoint for the PassForge CLI.
func main() {
	if err := cli.Execute(); err != nil {
		log.Printf("PassForge CLI error: %v", err)
		os.Exit(1)
	}
}
