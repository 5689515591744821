// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"path/filepath"
	"time"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/toeirei/passforge/internal/db"
	"github.com/toeirei/passforge/internal/i18n"
	"github.com/toeirei/passforge/internal/model"
	"github.com/toeirei/passforge/internal/wordlist"
)

var registerPath string

func init() {
	wordlistRegisterCmd.Flags().StringVar(&registerPath, "path", "", "Cache path for the list (defaults next to the built-in list)")

	wordlistCmd.AddCommand(
		wordlistListCmd,
		wordlistRegisterCmd,
		wordlistFetchCmd,
		wordlistInfoCmd,
		wordlistDeleteCmd,
	)
}

// wordlistCmd groups the word-list registry subcommands.
var wordlistCmd = &cobra.Command{
	Use:   "wordlist",
	Short: "Manage diceware word lists",
	Long: `PassForge caches word lists locally and records where they came from.
The default is the EFF large word list; additional lists can be registered
from http(s):// or sftp:// sources and bound to presets.`,
}

var wordlistListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List registered word lists",
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		lists, err := db.GetAllWordlists()
		if err != nil {
			log.Fatalf("could not list word lists: %v", err)
		}
		fmt.Printf("%-20s %-8s %s\n", "default", wordlistCountLabel(defaultWordCount()), appConfig.Wordlist.SourceURI)
		for _, w := range lists {
			fmt.Printf("%-20s %-8s %s\n", w.Name, wordlistCountLabel(w.Words), w.SourceURI)
		}
	},
}

var wordlistRegisterCmd = &cobra.Command{
	Use:   "register <name> <source-uri>",
	Short: "Register a word-list source",
	Long: `Registers a word list under a name without fetching it. The source may
be an http(s):// or sftp:// URI; sftp hosts must be trusted first via
'passforge trust-host'. Run 'passforge wordlist fetch <name>' to download it.`,
	Args:    cobra.ExactArgs(2),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		name, sourceURI := args[0], args[1]
		path := registerPath
		if path == "" {
			path = filepath.Join(filepath.Dir(appConfig.Wordlist.Path), name+".txt")
		}
		w := model.WordlistSource{
			Name:      name,
			Path:      path,
			SourceURI: sourceURI,
		}
		if _, err := db.RegisterWordlist(w); err != nil {
			log.Fatalf("could not register word list: %v", err)
		}
		fmt.Println(i18n.T("wordlist.cli_registered", name))
	},
}

var wordlistFetchCmd = &cobra.Command{
	Use:   "fetch [name]",
	Short: "Fetch a word list from its source",
	Long: `Downloads a word list to its cache path and records the checksum and
word count. With no name, the configured default list is fetched.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		name := "default"
		path := appConfig.Wordlist.Path
		sourceURI := appConfig.Wordlist.SourceURI
		registered := false
		if len(args) > 0 {
			name = args[0]
			rec, err := db.GetWordlistByName(name)
			if err != nil {
				log.Fatalf("could not look up word list: %v", err)
			}
			if rec == nil {
				log.Fatalf("no registered word list named %q", name)
			}
			path = rec.Path
			sourceURI = rec.SourceURI
			registered = true
		}

		info, err := wordlist.Fetch(cmd.Context(), sourceURI, path)
		if err != nil {
			log.Fatalf("%s", i18n.T("wordlist.cli_error_fetch", err))
		}
		wordlist.Invalidate(path)

		if registered {
			fetchedAt := time.Now().UTC().Format(time.RFC3339)
			if err := db.RecordWordlistFetch(name, info.Checksum, info.Words, fetchedAt); err != nil {
				log.Fatalf("could not record fetch: %v", err)
			}
		}
		fmt.Println(i18n.T("wordlist.cli_fetched", name, info.Words, shortChecksum(info.Checksum)))
	},
}

var wordlistInfoCmd = &cobra.Command{
	Use:     "info [name]",
	Short:   "Show a word list's registry record",
	Args:    cobra.MaximumNArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Printf("name:       default\n")
			fmt.Printf("path:       %s\n", appConfig.Wordlist.Path)
			fmt.Printf("source:     %s\n", appConfig.Wordlist.SourceURI)
			fmt.Printf("words:      %d\n", defaultWordCount())
			return
		}
		name := args[0]
		rec, err := db.GetWordlistByName(name)
		if err != nil {
			log.Fatalf("could not look up word list: %v", err)
		}
		if rec == nil {
			log.Fatalf("no registered word list named %q", name)
		}
		fmt.Printf("name:       %s\n", rec.Name)
		fmt.Printf("path:       %s\n", rec.Path)
		fmt.Printf("source:     %s\n", rec.SourceURI)
		fmt.Printf("words:      %d\n", rec.Words)
		if rec.Checksum != "" {
			fmt.Printf("sha256:     %s\n", rec.Checksum)
		}
		if rec.FetchedAt != "" {
			fmt.Printf("fetched at: %s\n", rec.FetchedAt)
		}
	},
}

var wordlistDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Short:   "Delete a word list's registry record",
	Long:    `Removes the registry record. The cached file on disk is left in place.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		rec, err := db.GetWordlistByName(name)
		if err != nil {
			log.Fatalf("could not look up word list: %v", err)
		}
		if rec == nil {
			log.Fatalf("no registered word list named %q", name)
		}
		if err := db.DeleteWordlist(name); err != nil {
			log.Fatalf("could not delete word list: %v", err)
		}
		wordlist.Invalidate(rec.Path)
		fmt.Println(i18n.T("wordlist.cli_deleted", name))
	},
}

// defaultWordCount reports the size of the cached default list, 0 when the
// cache is empty.
func defaultWordCount() int {
	words, err := wordlist.Get(appConfig.Wordlist.Path)
	if err != nil {
		return 0
	}
	return len(words)
}

func wordlistCountLabel(n int) string {
	if n == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", n)
}

// shortChecksum abbreviates a hex digest for one-line output.
func shortChecksum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}
