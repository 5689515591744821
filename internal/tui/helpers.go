// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"github.com/spf13/viper"
	"github.com/toeirei/passforge/internal/model"
	"github.com/toeirei/passforge/internal/passphrase"
	"github.com/toeirei/passforge/internal/wordlist"
)

// builtinPresetNames lists the built-in preset names in stable order.
func builtinPresetNames() []string {
	return passphrase.PresetNames()
}

// activeWordlistPath resolves the word list file the TUI generates from:
// the configured path when set, otherwise the default cache location.
func activeWordlistPath() (string, error) {
	if p := viper.GetString("wordlist.path"); p != "" {
		return p, nil
	}
	return wordlist.DefaultPath()
}

// activeWordlist returns the parsed active word list.
func activeWordlist() ([]string, error) {
	path, err := activeWordlistPath()
	if err != nil {
		return nil, err
	}
	return wordlist.Get(path)
}

// resolvePreset maps a preset name to a generator config. Stored presets
// shadow built-ins of the same name.
func resolvePreset(name string, stored []model.Preset) (passphrase.Config, error) {
	for _, p := range stored {
		if p.Name == name {
			return passphrase.FromPreset(p), nil
		}
	}
	return passphrase.PresetConfig(name)
}

// presetCycle returns the names the generate view tabs through: built-ins
// first, then stored presets that don't shadow a built-in.
func presetCycle(stored []model.Preset) []string {
	names := builtinPresetNames()
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	for _, p := range stored {
		if !seen[p.Name] {
			names = append(names, p.Name)
			seen[p.Name] = true
		}
	}
	return names
}
