// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

package passphrase

import "math"

// Entropy estimates the Shannon entropy in bits of a passphrase produced by
// cfg over a word list of wordlistSize entries. The estimate assumes the
// minimum shape (exactly WordCount words); the length floor can force extra
// words, so the real value is never lower than this.
func Entropy(cfg Config, wordlistSize int) float64 {
	if wordlistSize <= 0 {
		return 0
	}

	bits := float64(cfg.WordCount) * math.Log2(float64(wordlistSize))

	// Each non-first word carries the configured augmentation.
	joints := cfg.WordCount - 1
	if joints < 0 {
		joints = 0
	}

	if cfg.IncludeNumbers {
		bits += float64(joints*cfg.NumberLength) * math.Log2(10)
	}

	setBits := math.Log2(float64(len(cfg.DelimiterSet())))
	switch {
	case cfg.IncludeDelimiters && cfg.RandomizeDelimiters:
		// One draw before the word plus one after each number block, each
		// DelimiterLength independent characters.
		draws := joints
		if cfg.IncludeNumbers {
			draws *= 2
		}
		bits += float64(draws*cfg.DelimiterLength) * setBits
	case cfg.IncludeDelimiters && cfg.Delimiter == "":
		// A single up-front draw is reused everywhere.
		bits += setBits
	}

	return bits
}
