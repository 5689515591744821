// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"os"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/toeirei/passforge/internal/db"
	"github.com/toeirei/passforge/internal/i18n"
	"github.com/toeirei/passforge/internal/passphrase"
	"github.com/toeirei/passforge/internal/security"
	"github.com/toeirei/passforge/internal/wordlist"
)

var (
	genPreset          string
	genWords           int
	genLength          int
	genNumberLength    int
	genDelimiterLength int
	genDelimiter       string
	genNumbers         bool
	genDelims          bool
	genRandomDelims    bool
	genComplex         bool
	genWordlist        string
	genCount           int
	genShowEntropy     bool
	genQuiet           bool
)

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&genPreset, "preset", "p", "", "Preset to start from (stored presets shadow built-ins)")
	f.IntVarP(&genWords, "words", "w", 0, "Minimum number of words")
	f.IntVarP(&genLength, "length", "l", 0, "Minimum passphrase length in characters")
	f.BoolVarP(&genNumbers, "numbers", "n", false, "Insert a random number after each word")
	f.BoolVarP(&genDelims, "delimiters", "d", false, "Separate elements with delimiters")
	f.BoolVar(&genRandomDelims, "randomize-delimiters", false, "Draw a fresh delimiter at every position")
	f.BoolVar(&genComplex, "complex", false, "Use the extended delimiter set")
	f.StringVar(&genDelimiter, "delimiter", "", "Fixed delimiter string (overrides randomization)")
	f.IntVar(&genNumberLength, "number-length", 0, "Digits per inserted number")
	f.IntVar(&genDelimiterLength, "delimiter-length", 0, "Characters per randomized delimiter")
	f.StringVar(&genWordlist, "wordlist", "", "Registered word-list name or a file path")
	f.IntVarP(&genCount, "count", "c", 1, "Number of passphrases to generate")
	f.BoolVar(&genShowEntropy, "show-entropy", false, "Print the entropy estimate to stderr")
	f.BoolVarP(&genQuiet, "quiet", "q", false, "Suppress everything except the passphrases")
}

// generateCmd represents the 'generate' command.
// It produces one or more passphrases on stdout and records a metadata-only
// audit entry. The entropy estimate goes to stderr so the passphrase stream
// stays pipe-clean.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one or more diceware passphrases",
	Long: `Generates passphrases from the active word list. Options start from a
preset (--preset, default "words": plain concatenated words at the documented
defaults) and individual flags override the preset's values. Passphrases are
written to stdout, one per line; nothing generated is ever stored or logged.

Examples:
  passforge generate
  passforge generate --preset strong --count 5
  passforge generate --words 6 --delimiters --numbers`,
	Args:    cobra.NoArgs,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, presetName, presetList, err := resolveGenerateConfig(cmd)
		if err != nil {
			log.Fatalf("%s", i18n.T("generate.cli_error", err))
		}
		words, err := resolveGenerateWords(cmd.Context(), presetList)
		if err != nil {
			log.Fatalf("%s", i18n.T("wordlist.cli_error_fetch", err))
		}

		for i := 0; i < genCount; i++ {
			out, err := passphrase.Generate(cfg, words)
			if err != nil {
				log.Fatalf("%s", i18n.T("generate.cli_error", err))
			}
			sec := security.FromString(out)
			fmt.Println(sec.Reveal())
			sec.Zero()
		}

		// Entropy goes to stderr: shown when stdout is a terminal (or on
		// request), invisible to pipes.
		if !genQuiet && (genShowEntropy || term.IsTerminal(int(os.Stdout.Fd()))) {
			entropy := passphrase.Entropy(cfg, len(words))
			fmt.Fprintln(os.Stderr, i18n.T("generate.cli_entropy", entropy, len(words)))
		}

		_ = db.LogAction("GENERATE", fmt.Sprintf(
			"preset: %s, words: %d, length: %d, count: %d", presetName, cfg.WordCount, cfg.Length, genCount))
	},
}

// resolveGenerateConfig builds the generator config for the CLI: preset
// first (stored presets shadow built-ins of the same name), then any
// explicitly set flags on top. The third return value is the preset's
// word-list binding, empty for built-ins and unbound presets.
func resolveGenerateConfig(cmd *cobra.Command) (passphrase.Config, string, string, error) {
	// Flagless runs use the documented option defaults; "words" is exactly
	// DefaultConfig.
	name := genPreset
	if name == "" {
		name = passphrase.PresetWords
	}

	var cfg passphrase.Config
	var presetList string
	stored, err := db.GetPresetByName(name)
	if err != nil {
		return cfg, name, "", err
	}
	if stored != nil {
		cfg = passphrase.FromPreset(*stored)
		presetList = stored.Wordlist
	} else {
		cfg, err = passphrase.PresetConfig(name)
		if err != nil {
			return cfg, name, "", fmt.Errorf("%s", i18n.T("preset.cli_unknown", name))
		}
	}

	flags := cmd.Flags()
	if flags.Changed("words") {
		cfg.WordCount = genWords
	}
	if flags.Changed("length") {
		cfg.Length = genLength
	}
	if flags.Changed("numbers") {
		cfg.IncludeNumbers = genNumbers
	}
	if flags.Changed("delimiters") {
		cfg.IncludeDelimiters = genDelims
	}
	if flags.Changed("randomize-delimiters") {
		cfg.RandomizeDelimiters = genRandomDelims
	}
	if flags.Changed("complex") {
		cfg.UseComplexDelimiters = genComplex
	}
	if flags.Changed("delimiter") {
		cfg.Delimiter = genDelimiter
		cfg.IncludeDelimiters = true
	}
	if flags.Changed("number-length") {
		cfg.NumberLength = genNumberLength
	}
	if flags.Changed("delimiter-length") {
		cfg.DelimiterLength = genDelimiterLength
	}

	if err := cfg.Validate(); err != nil {
		return cfg, name, presetList, err
	}
	return cfg, name, presetList, nil
}

// resolveGenerateWords loads the word list for a generation run. Priority:
// the --wordlist flag (registered name, then file path), then the preset's
// word-list binding, then the configured default list.
func resolveGenerateWords(ctx context.Context, presetList string) ([]string, error) {
	if genWordlist != "" {
		return wordsByNameOrPath(ctx, genWordlist)
	}
	if presetList != "" {
		return wordsByNameOrPath(ctx, presetList)
	}
	return wordlist.Ensure(ctx, appConfig.Wordlist.Path, appConfig.Wordlist.SourceURI)
}

// wordsByNameOrPath resolves a --wordlist argument: a registered word-list
// name wins, otherwise the argument is treated as a local file path.
func wordsByNameOrPath(ctx context.Context, nameOrPath string) ([]string, error) {
	rec, err := db.GetWordlistByName(nameOrPath)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return wordlist.Ensure(ctx, rec.Path, rec.SourceURI)
	}
	if _, statErr := os.Stat(nameOrPath); statErr != nil {
		return nil, fmt.Errorf("no registered word list or readable file %q", nameOrPath)
	}
	return wordlist.Get(nameOrPath)
}
