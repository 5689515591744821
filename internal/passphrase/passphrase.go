// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

// package passphrase implements the diceware-style passphrase generator at
// the heart of PassForge. It is pure computation over an already-loaded word
// list; loading and fetching word lists is the wordlist package's job, and
// preset/flag resolution happens in the callers. All random draws come from
// crypto/rand unless a test injects its own reader.
package passphrase // import "github.com/toeirei/passforge/internal/passphrase"

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
)

// Delimiter alphabets. The complex set is the simple set plus shifted
// punctuation; members listed twice in the source material were dropped.
const (
	SimpleDelimiters  = "-_=+;:,."
	ComplexDelimiters = SimpleDelimiters + "!@#$%^&*()[{]}\\/?"
)

// Option bounds, enforced by Config.Validate before any generation work.
const (
	MinWordCount = 2
	MaxWordCount = 16

	MinLength = 16
	MaxLength = 256

	MinNumberLength = 1
	MaxNumberLength = 8

	MinDelimiterLength = 1
	MaxDelimiterLength = 8
)

// Config holds the fully resolved options for one generation call. The zero
// value is not valid; start from DefaultConfig or a preset.
type Config struct {
	// WordCount is the minimum number of words in the output.
	WordCount int
	// Length is the minimum character length of the output. Generation
	// keeps drawing words until both minimums are satisfied, so either may
	// be overshot.
	Length int
	// NumberLength is the digit count of injected numbers, zero-padded.
	NumberLength int
	// DelimiterLength is the character count of randomized delimiter draws.
	// A fixed Delimiter is used verbatim regardless of this value.
	DelimiterLength int
	// Delimiter, when non-empty, is the fixed separator. When empty and
	// delimiters are enabled without randomization, one set member is drawn
	// up front and reused.
	Delimiter string

	IncludeNumbers       bool
	IncludeDelimiters    bool
	RandomizeDelimiters  bool
	UseComplexDelimiters bool
}

// DefaultConfig returns the documented defaults: two words, sixteen
// characters, two-digit numbers and single-character delimiters, with all
// augmentation switched off.
func DefaultConfig() Config {
	return Config{
		WordCount:       MinWordCount,
		Length:          MinLength,
		NumberLength:    2,
		DelimiterLength: 1,
	}
}

// Validate checks every option against its documented range. Disabled
// features are not an error; their options are simply ignored.
func (c Config) Validate() error {
	if c.WordCount < MinWordCount || c.WordCount > MaxWordCount {
		return fmt.Errorf("%w: word count %d out of range [%d,%d]", ErrConfiguration, c.WordCount, MinWordCount, MaxWordCount)
	}
	if c.Length < MinLength || c.Length > MaxLength {
		return fmt.Errorf("%w: length %d out of range [%d,%d]", ErrConfiguration, c.Length, MinLength, MaxLength)
	}
	if c.NumberLength < MinNumberLength || c.NumberLength > MaxNumberLength {
		return fmt.Errorf("%w: number length %d out of range [%d,%d]", ErrConfiguration, c.NumberLength, MinNumberLength, MaxNumberLength)
	}
	if c.DelimiterLength < MinDelimiterLength || c.DelimiterLength > MaxDelimiterLength {
		return fmt.Errorf("%w: delimiter length %d out of range [%d,%d]", ErrConfiguration, c.DelimiterLength, MinDelimiterLength, MaxDelimiterLength)
	}
	return nil
}

// DelimiterSet returns the alphabet randomized draws use.
func (c Config) DelimiterSet() string {
	if c.UseComplexDelimiters {
		return ComplexDelimiters
	}
	return SimpleDelimiters
}

// Generate produces one passphrase from words using crypto/rand.
//
// words must already be parsed and title-cased (see wordlist.Parse). The
// returned passphrase is at least Length characters long AND contains at
// least WordCount words; the loop keeps drawing words until both floors are
// met, so short word lists simply yield more words.
func Generate(cfg Config, words []string) (string, error) {
	return GenerateWithRand(cfg, words, rand.Reader)
}

// GenerateWithRand is Generate with an explicit random source. Production
// callers use Generate; tests pass a deterministic reader.
func GenerateWithRand(cfg Config, words []string, rnd io.Reader) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if len(words) == 0 {
		return "", fmt.Errorf("%w: empty word list", ErrResourceUnavailable)
	}

	set := cfg.DelimiterSet()

	// Resolve the reusable delimiter: an explicit one verbatim, otherwise a
	// single member drawn from the set. Randomized mode redraws per
	// injection and never touches this value.
	delim := cfg.Delimiter
	if delim == "" {
		idx, err := randInt(rnd, len(set))
		if err != nil {
			return "", err
		}
		delim = string(set[idx])
	}

	numberBound := pow10(cfg.NumberLength)

	var b strings.Builder
	wordsAdded := 0
	for wordsAdded < cfg.WordCount || b.Len() < cfg.Length {
		if wordsAdded > 0 {
			if cfg.IncludeDelimiters {
				d, err := nextDelimiter(cfg, set, delim, rnd)
				if err != nil {
					return "", err
				}
				b.WriteString(d)
			}
			if cfg.IncludeNumbers {
				n, err := randInt(rnd, numberBound)
				if err != nil {
					return "", err
				}
				fmt.Fprintf(&b, "%0*d", cfg.NumberLength, n)
				if cfg.IncludeDelimiters {
					d, err := nextDelimiter(cfg, set, delim, rnd)
					if err != nil {
						return "", err
					}
					b.WriteString(d)
				}
			}
		}

		idx, err := randInt(rnd, len(words))
		if err != nil {
			return "", err
		}
		b.WriteString(words[idx])
		wordsAdded++
	}

	return b.String(), nil
}

// nextDelimiter picks the delimiter for one injection point: a fresh
// DelimiterLength-character draw when randomizing, else the reusable one.
func nextDelimiter(cfg Config, set, fixed string, rnd io.Reader) (string, error) {
	if cfg.RandomizeDelimiters {
		return randDelimiter(rnd, set, cfg.DelimiterLength)
	}
	return fixed, nil
}

// pow10 returns 10^n for the small exponents NumberLength allows.
func pow10(n int) int {
	out := 1
	for i := 0; i < n; i++ {
		out *= 10
	}
	return out
}
