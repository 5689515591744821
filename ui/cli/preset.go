// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/toeirei/passforge/internal/db"
	"github.com/toeirei/passforge/internal/i18n"
	"github.com/toeirei/passforge/internal/model"
	"github.com/toeirei/passforge/internal/passphrase"
)

var (
	addWords           int
	addLength          int
	addNumberLength    int
	addDelimiterLength int
	addDelimiter       string
	addNumbers         bool
	addDelims          bool
	addRandomDelims    bool
	addComplex         bool
	addFrom            string
	addWordlistBinding string
)

func init() {
	f := presetAddCmd.Flags()
	f.StringVar(&addFrom, "from", "", "Preset to use as the starting point")
	f.IntVarP(&addWords, "words", "w", 0, "Minimum number of words")
	f.IntVarP(&addLength, "length", "l", 0, "Minimum passphrase length in characters")
	f.BoolVarP(&addNumbers, "numbers", "n", false, "Insert a random number after each word")
	f.BoolVarP(&addDelims, "delimiters", "d", false, "Separate elements with delimiters")
	f.BoolVar(&addRandomDelims, "randomize-delimiters", false, "Draw a fresh delimiter at every position")
	f.BoolVar(&addComplex, "complex", false, "Use the extended delimiter set")
	f.StringVar(&addDelimiter, "delimiter", "", "Fixed delimiter string")
	f.IntVar(&addNumberLength, "number-length", 0, "Digits per inserted number")
	f.IntVar(&addDelimiterLength, "delimiter-length", 0, "Characters per randomized delimiter")
	f.StringVar(&addWordlistBinding, "wordlist", "", "Registered word list to bind this preset to")

	presetCmd.AddCommand(presetListCmd, presetShowCmd, presetAddCmd, presetDeleteCmd, presetRenameCmd)
}

// presetCmd groups the preset management subcommands.
var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage generator presets",
	Long: `Presets bundle generator options under a name. Built-in presets
(words, standard, strong, pin) are always available; stored presets live in
the database and shadow a built-in of the same name.`,
}

var presetListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List built-in and stored presets",
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		stored, err := db.GetAllPresets()
		if err != nil {
			log.Fatalf("could not list presets: %v", err)
		}
		storedNames := make(map[string]bool, len(stored))
		for _, p := range stored {
			storedNames[p.Name] = true
		}

		for _, p := range passphrase.BuiltinPresets() {
			if storedNames[p.Name] {
				continue // shadowed by a stored preset below
			}
			fmt.Printf("%-20s %s (built-in)\n", p.Name, presetSummary(p))
		}
		for _, p := range stored {
			fmt.Printf("%-20s %s\n", p.Name, presetSummary(p))
		}
	},
}

var presetShowCmd = &cobra.Command{
	Use:     "show <name>",
	Short:   "Show a preset's full option set",
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		p, err := lookupPreset(name)
		if err != nil {
			log.Fatalf("%s", i18n.T("preset.cli_unknown", name))
		}
		fmt.Printf("name:                 %s\n", p.Name)
		fmt.Printf("words:                %d\n", p.WordCount)
		fmt.Printf("length:               %d\n", p.Length)
		fmt.Printf("numbers:              %v (%d digits)\n", p.IncludeNumbers, p.NumberLength)
		fmt.Printf("delimiters:           %v (%d chars)\n", p.IncludeDelimiters, p.DelimiterLength)
		fmt.Printf("randomize delimiters: %v\n", p.RandomizeDelimiters)
		fmt.Printf("complex delimiters:   %v\n", p.UseComplexDelimiters)
		if p.Delimiter != "" {
			fmt.Printf("fixed delimiter:      %q\n", p.Delimiter)
		}
		if p.Wordlist != "" {
			fmt.Printf("word list:            %s\n", p.Wordlist)
		}
	},
}

var presetAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Store a new preset",
	Long: `Stores a preset under the given name. Options start from --from
(default "standard") and individual flags override the base values. A stored
preset shadows a built-in of the same name.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		base := addFrom
		if base == "" {
			base = passphrase.PresetStandard
		}
		cfg, err := lookupPresetConfig(base)
		if err != nil {
			log.Fatalf("%s", i18n.T("preset.cli_unknown", base))
		}

		flags := cmd.Flags()
		if flags.Changed("words") {
			cfg.WordCount = addWords
		}
		if flags.Changed("length") {
			cfg.Length = addLength
		}
		if flags.Changed("numbers") {
			cfg.IncludeNumbers = addNumbers
		}
		if flags.Changed("delimiters") {
			cfg.IncludeDelimiters = addDelims
		}
		if flags.Changed("randomize-delimiters") {
			cfg.RandomizeDelimiters = addRandomDelims
		}
		if flags.Changed("complex") {
			cfg.UseComplexDelimiters = addComplex
		}
		if flags.Changed("delimiter") {
			cfg.Delimiter = addDelimiter
			cfg.IncludeDelimiters = true
		}
		if flags.Changed("number-length") {
			cfg.NumberLength = addNumberLength
		}
		if flags.Changed("delimiter-length") {
			cfg.DelimiterLength = addDelimiterLength
		}
		if err := cfg.Validate(); err != nil {
			log.Fatalf("invalid preset: %v", err)
		}

		p := passphrase.ToPreset(name, cfg)
		if addWordlistBinding != "" {
			rec, werr := db.GetWordlistByName(addWordlistBinding)
			if werr != nil {
				log.Fatalf("could not look up word list: %v", werr)
			}
			if rec == nil {
				log.Fatalf("no registered word list named %q", addWordlistBinding)
			}
			p.Wordlist = addWordlistBinding
		}
		if _, err := db.AddPreset(p); err != nil {
			log.Fatalf("could not store preset: %v", err)
		}
		fmt.Println(i18n.T("preset.cli_added", name))
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Short:   "Delete a stored preset",
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		stored, err := db.GetPresetByName(name)
		if err != nil {
			log.Fatalf("could not look up preset: %v", err)
		}
		if stored == nil {
			log.Fatalf("%s", i18n.T("preset.cli_unknown", name))
		}
		if err := db.DeletePreset(name); err != nil {
			log.Fatalf("could not delete preset: %v", err)
		}
		fmt.Println(i18n.T("preset.cli_deleted", name))
	},
}

var presetRenameCmd = &cobra.Command{
	Use:     "rename <old> <new>",
	Short:   "Rename a stored preset",
	Args:    cobra.ExactArgs(2),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		oldName, newName := args[0], args[1]
		if err := db.RenamePreset(oldName, newName); err != nil {
			log.Fatalf("could not rename preset: %v", err)
		}
		fmt.Println(i18n.T("preset.cli_renamed", oldName, newName))
	},
}

// lookupPreset resolves a preset by name, stored first, then built-in.
func lookupPreset(name string) (model.Preset, error) {
	stored, err := db.GetPresetByName(name)
	if err != nil {
		return model.Preset{}, err
	}
	if stored != nil {
		return *stored, nil
	}
	cfg, err := passphrase.PresetConfig(name)
	if err != nil {
		return model.Preset{}, err
	}
	return passphrase.ToPreset(name, cfg), nil
}

// lookupPresetConfig resolves a preset name to a generator config, stored
// presets shadowing built-ins.
func lookupPresetConfig(name string) (passphrase.Config, error) {
	p, err := lookupPreset(name)
	if err != nil {
		return passphrase.Config{}, err
	}
	return passphrase.FromPreset(p), nil
}

// presetSummary renders the one-line option summary used by `preset list`.
func presetSummary(p model.Preset) string {
	out := fmt.Sprintf("%d words / %d chars min", p.WordCount, p.Length)
	if p.IncludeNumbers {
		out += fmt.Sprintf(", numbers(%d)", p.NumberLength)
	}
	if p.IncludeDelimiters {
		out += ", delimiters"
		if p.RandomizeDelimiters {
			out += "(random)"
		}
		if p.UseComplexDelimiters {
			out += "(complex)"
		}
	}
	if p.Wordlist != "" {
		out += fmt.Sprintf(", list=%s", p.Wordlist)
	}
	return out
}
