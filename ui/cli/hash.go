// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/toeirei/passforge/internal/i18n"
	"github.com/toeirei/passforge/internal/security"
)

var hashCost int

func init() {
	hashCmd.Flags().IntVar(&hashCost, "cost", bcrypt.DefaultCost, "bcrypt cost factor (4-31)")
}

// hashCmd represents the 'hash' command.
// It reads a passphrase (hidden prompt on a terminal, stdin otherwise) and
// prints its bcrypt hash. The input is zeroed after hashing and never logged.
var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Print the bcrypt hash of a passphrase",
	Long: `Reads a passphrase and prints its bcrypt hash, e.g. for seeding an
htpasswd file or a user table. On a terminal the passphrase is read with
echo disabled; otherwise it is read from stdin so the command can be piped:

  passforge generate --quiet | passforge hash`,
	Args:    cobra.NoArgs,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		sec, err := readPassphrase(os.Stdin)
		if err != nil {
			log.Fatalf("%s", i18n.T("hash.cli_error_read", err))
		}
		defer sec.Zero()

		var hash []byte
		err = sec.Use(func(b []byte) error {
			var herr error
			hash, herr = bcrypt.GenerateFromPassword(b, hashCost)
			return herr
		})
		if err != nil {
			log.Fatalf("%s", i18n.T("hash.cli_error_hash", err))
		}
		fmt.Println(string(hash))
	},
}

// readPassphrase reads the passphrase to hash. A terminal gets a hidden
// prompt; anything else (a pipe, a redirect) is read to EOF with trailing
// newlines stripped.
func readPassphrase(in *os.File) (security.Secret, error) {
	if term.IsTerminal(int(in.Fd())) {
		fmt.Fprint(os.Stderr, i18n.T("hash.cli_prompt"))
		raw, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, err
		}
		return security.FromBytes(raw), nil
	}

	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimRight(string(raw), "\r\n")
	if trimmed == "" {
		return nil, fmt.Errorf("empty passphrase")
	}
	return security.FromString(trimmed), nil
}
