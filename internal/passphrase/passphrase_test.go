// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

package passphrase

import (
	"errors"
	"math/rand"
	"regexp"
	"strings"
	"testing"
)

// testWords is a small title-cased dictionary. Letters only, so any
// non-letter character in generated output must come from augmentation.
var testWords = []string{
	"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot", "Golf", "Hotel",
	"India", "Juliett", "Kilo", "Lima", "Mike", "November", "Oscar", "Papa",
	"Quebec", "Romeo", "Sierra", "Tango", "Uniform", "Victor", "Whiskey", "Xray",
	"Yankee", "Zulu", "Anchor", "Beacon", "Cipher", "Dagger", "Ember", "Falcon",
	"Garnet", "Harbor", "Ingot", "Jasper", "Keystone", "Lantern", "Meadow", "Nickel",
	"Onyx", "Pylon", "Quartz", "Rudder", "Saber", "Tundra", "Umbra", "Vertex",
	"Walnut", "Xenon", "Yarrow", "Zephyr", "Arbor", "Basalt", "Cobalt", "Drift",
	"Eddy", "Fjord", "Glacier", "Hollow", "Islet", "Juniper", "Knoll", "Ledger",
}

// seqReader feeds pseudo-random bytes from a fixed seed so generation is
// repeatable inside a single test without being all-zeros.
type seqReader struct{ r *rand.Rand }

func newSeqReader(seed int64) seqReader {
	return seqReader{r: rand.New(rand.NewSource(seed))}
}

func (s seqReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(s.r.Intn(256))
	}
	return len(p), nil
}

// zeroReader yields zero bytes, forcing every uniform draw to index 0. That
// makes the full output deterministic.
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func TestGenerateDefaultsMeetFloors(t *testing.T) {
	cfg := DefaultConfig()
	out, err := Generate(cfg, testWords)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(out) < cfg.Length {
		t.Fatalf("output %q shorter than length floor %d", out, cfg.Length)
	}
	// Words only: output must be letters, each word starting uppercase.
	if !regexp.MustCompile(`^([A-Z][a-z]+)+$`).MatchString(out) {
		t.Fatalf("expected concatenated title-cased words, got %q", out)
	}
}

func TestGenerateLengthFloorForcesExtraWords(t *testing.T) {
	// Two-character words: the 2-word minimum yields 4 chars, so the
	// 16-char floor must keep the loop drawing.
	shortWords := []string{"Ab", "Cd"}
	cfg := DefaultConfig()
	out, err := GenerateWithRand(cfg, shortWords, newSeqReader(1))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(out) < cfg.Length {
		t.Fatalf("output %q shorter than length floor %d", out, cfg.Length)
	}
	if wordCount := len(out) / 2; wordCount < 8 {
		t.Fatalf("expected at least 8 words to satisfy the length floor, got %d (%q)", wordCount, out)
	}
}

func TestGenerateWordCountFloorBeyondLength(t *testing.T) {
	// Long words hit the length floor immediately; the word-count floor
	// must still be honored.
	cfg := DefaultConfig()
	cfg.WordCount = 6
	out, err := GenerateWithRand(cfg, []string{"Magnificent", "Extravagant"}, newSeqReader(2))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	words := regexp.MustCompile(`[A-Z][a-z]+`).FindAllString(out, -1)
	if len(words) < 6 {
		t.Fatalf("expected at least 6 words, got %d (%q)", len(words), out)
	}
}

func TestGenerateFixedDelimiter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IncludeDelimiters = true
	cfg.Delimiter = "-"
	out, err := GenerateWithRand(cfg, testWords, newSeqReader(3))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	segments := strings.Split(out, "-")
	if len(segments) < cfg.WordCount {
		t.Fatalf("expected at least %d segments, got %d (%q)", cfg.WordCount, len(segments), out)
	}
	for _, seg := range segments {
		if seg == "" {
			t.Fatalf("found empty segment, delimiters must not repeat: %q", out)
		}
		if !inDictionary(seg) {
			t.Fatalf("segment %q is not a dictionary word (%q)", seg, out)
		}
	}
}

func TestGenerateNumberBlocks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IncludeDelimiters = true
	cfg.IncludeNumbers = true
	cfg.NumberLength = 3
	cfg.Delimiter = "-"
	out, err := GenerateWithRand(cfg, testWords, newSeqReader(4))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	// Shape is Word(-NNN-Word)*: split segments alternate word, number.
	segments := strings.Split(out, "-")
	numberRe := regexp.MustCompile(`^\d{3}$`)
	for i, seg := range segments {
		if i%2 == 0 {
			if !inDictionary(seg) {
				t.Fatalf("segment %d = %q, expected dictionary word (%q)", i, seg, out)
			}
			continue
		}
		if !numberRe.MatchString(seg) {
			t.Fatalf("segment %d = %q, expected exactly 3 zero-padded digits (%q)", i, seg, out)
		}
	}
	if len(segments)%2 == 0 {
		t.Fatalf("expected output to end on a word, got %q", out)
	}
}

func TestGenerateRandomizedDelimiterLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IncludeDelimiters = true
	cfg.RandomizeDelimiters = true
	cfg.DelimiterLength = 2
	out, err := GenerateWithRand(cfg, testWords, newSeqReader(5))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	// Every non-letter run is one delimiter injection: exactly 2 chars,
	// all from the simple set.
	runs := regexp.MustCompile(`[^A-Za-z]+`).FindAllString(out, -1)
	if len(runs) == 0 {
		t.Fatalf("expected delimiter runs in %q", out)
	}
	for _, run := range runs {
		if len(run) != 2 {
			t.Fatalf("delimiter run %q has length %d, want 2 (%q)", run, len(run), out)
		}
		for i := 0; i < len(run); i++ {
			if !strings.ContainsRune(SimpleDelimiters, rune(run[i])) {
				t.Fatalf("delimiter char %q outside the simple set (%q)", run[i], out)
			}
		}
	}
}

func TestGenerateComplexSetMembership(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IncludeDelimiters = true
	cfg.RandomizeDelimiters = true
	cfg.UseComplexDelimiters = true
	cfg.Length = 64 // more injections, more set coverage
	out, err := GenerateWithRand(cfg, testWords, newSeqReader(6))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for _, r := range out {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' {
			continue
		}
		if !strings.ContainsRune(ComplexDelimiters, r) {
			t.Fatalf("character %q outside the complex delimiter set (%q)", r, out)
		}
	}
}

func TestGenerateDeterministicWithZeroReader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IncludeDelimiters = true
	cfg.IncludeNumbers = true
	cfg.NumberLength = 3
	cfg.Delimiter = "-"
	out, err := GenerateWithRand(cfg, []string{"Alpha", "Bravo"}, zeroReader{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	// Index 0 everywhere: word "Alpha", number 000. Two words reach 15
	// chars, under the 16 floor, so a third round is required.
	want := "Alpha-000-Alpha-000-Alpha"
	if out != want {
		t.Fatalf("zero-reader output = %q, want %q", out, want)
	}
}

func TestGenerateShapeStableContentFresh(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IncludeDelimiters = true
	cfg.Delimiter = "-"
	first, err := Generate(cfg, testWords)
	if err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}
	second, err := Generate(cfg, testWords)
	if err != nil {
		t.Fatalf("second Generate failed: %v", err)
	}
	// All test words are 2-9 letters; shape (segment count) may differ only
	// via the length floor, but content should differ w.h.p.
	if first == second {
		t.Fatalf("two generations produced identical output %q", first)
	}
	if strings.Count(first, "-") == 0 || strings.Count(second, "-") == 0 {
		t.Fatalf("expected delimiters in both outputs: %q / %q", first, second)
	}
}

func TestGenerateEmptyWordList(t *testing.T) {
	_, err := Generate(DefaultConfig(), nil)
	if !errors.Is(err, ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"word count low", func(c *Config) { c.WordCount = 1 }},
		{"word count high", func(c *Config) { c.WordCount = 17 }},
		{"length low", func(c *Config) { c.Length = 15 }},
		{"length high", func(c *Config) { c.Length = 257 }},
		{"number length low", func(c *Config) { c.NumberLength = 0 }},
		{"number length high", func(c *Config) { c.NumberLength = 9 }},
		{"delimiter length low", func(c *Config) { c.DelimiterLength = 0 }},
		{"delimiter length high", func(c *Config) { c.DelimiterLength = 9 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if _, err := Generate(cfg, testWords); !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestDelimiterSets(t *testing.T) {
	if len(SimpleDelimiters) != 8 {
		t.Fatalf("simple set has %d members, want 8", len(SimpleDelimiters))
	}
	seen := map[byte]bool{}
	for i := 0; i < len(ComplexDelimiters); i++ {
		c := ComplexDelimiters[i]
		if seen[c] {
			t.Fatalf("complex set repeats %q", c)
		}
		seen[c] = true
	}
	for i := 0; i < len(SimpleDelimiters); i++ {
		if !strings.Contains(ComplexDelimiters, string(SimpleDelimiters[i])) {
			t.Fatalf("complex set is missing simple member %q", SimpleDelimiters[i])
		}
	}
}

func inDictionary(word string) bool {
	for _, w := range testWords {
		if w == word {
			return true
		}
	}
	return false
}
