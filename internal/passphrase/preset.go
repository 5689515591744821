// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

package passphrase

import (
	"fmt"
	"sort"

	"github.com/toeirei/passforge/internal/model"
)

// Built-in preset names. Stored presets with the same name shadow these when
// the caller resolves through the store first.
const (
	PresetWords    = "words"
	PresetStandard = "standard"
	PresetStrong   = "strong"
	PresetPIN      = "pin"
)

// builtinPresets maps names to ready-to-use configs. Kept as a function so
// callers can't mutate shared state.
func builtinPreset(name string) (Config, bool) {
	switch name {
	case PresetWords:
		// Bare concatenated words at the documented defaults.
		return DefaultConfig(), true
	case PresetStandard:
		cfg := DefaultConfig()
		cfg.WordCount = 3
		cfg.Length = 20
		cfg.IncludeDelimiters = true
		return cfg, true
	case PresetStrong:
		cfg := DefaultConfig()
		cfg.WordCount = 4
		cfg.Length = 32
		cfg.IncludeDelimiters = true
		cfg.IncludeNumbers = true
		cfg.RandomizeDelimiters = true
		cfg.UseComplexDelimiters = true
		return cfg, true
	case PresetPIN:
		// Words separated by digit blocks only; friendly to keypad entry.
		cfg := DefaultConfig()
		cfg.IncludeNumbers = true
		cfg.NumberLength = 4
		return cfg, true
	}
	return Config{}, false
}

// PresetConfig resolves a built-in preset name into a Config. Unknown names
// are a configuration error; stored (database) presets are resolved by the
// caller before falling back here.
func PresetConfig(name string) (Config, error) {
	cfg, ok := builtinPreset(name)
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown preset %q", ErrConfiguration, name)
	}
	return cfg, nil
}

// PresetNames lists the built-in preset names in stable order.
func PresetNames() []string {
	names := []string{PresetWords, PresetStandard, PresetStrong, PresetPIN}
	sort.Strings(names)
	return names
}

// BuiltinPresets returns the built-ins as model rows (ID zero) for listings
// alongside stored presets.
func BuiltinPresets() []model.Preset {
	names := PresetNames()
	out := make([]model.Preset, 0, len(names))
	for _, name := range names {
		cfg, _ := builtinPreset(name)
		out = append(out, ToPreset(name, cfg))
	}
	return out
}

// FromPreset converts a stored preset row into a generator Config. The
// row's Wordlist reference is resolved by the caller.
func FromPreset(p model.Preset) Config {
	return Config{
		WordCount:            p.WordCount,
		Length:               p.Length,
		NumberLength:         p.NumberLength,
		DelimiterLength:      p.DelimiterLength,
		Delimiter:            p.Delimiter,
		IncludeNumbers:       p.IncludeNumbers,
		IncludeDelimiters:    p.IncludeDelimiters,
		RandomizeDelimiters:  p.RandomizeDelimiters,
		UseComplexDelimiters: p.UseComplexDelimiters,
	}
}

// ToPreset captures cfg under name for storage or display.
func ToPreset(name string, cfg Config) model.Preset {
	return model.Preset{
		Name:                 name,
		WordCount:            cfg.WordCount,
		Length:               cfg.Length,
		NumberLength:         cfg.NumberLength,
		DelimiterLength:      cfg.DelimiterLength,
		Delimiter:            cfg.Delimiter,
		IncludeNumbers:       cfg.IncludeNumbers,
		IncludeDelimiters:    cfg.IncludeDelimiters,
		RandomizeDelimiters:  cfg.RandomizeDelimiters,
		UseComplexDelimiters: cfg.UseComplexDelimiters,
	}
}
