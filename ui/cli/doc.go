// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

// Package cli implements the PassForge command-line interface. It wires the
// Cobra command tree, loads configuration, opens the database and dispatches
// to the interactive TUI when no subcommand is given.
package cli
