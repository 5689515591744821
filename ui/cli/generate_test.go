package cli

import (
	"testing"

	"github.com/toeirei/passforge/internal/db"
	"github.com/toeirei/passforge/internal/passphrase"
)

func TestResolveGenerateConfig_FlaglessUsesDocumentedDefaults(t *testing.T) {
	setupCLITest(t)

	cfg, name, list, err := resolveGenerateConfig(generateCmd)
	if err != nil {
		t.Fatalf("resolveGenerateConfig failed: %v", err)
	}
	if name != passphrase.PresetWords {
		t.Fatalf("expected default preset words, got %q", name)
	}
	if list != "" {
		t.Fatalf("built-in presets carry no word-list binding, got %q", list)
	}
	if cfg != passphrase.DefaultConfig() {
		t.Fatalf("flagless config must equal the documented defaults, got %+v", cfg)
	}
}

func TestResolveGenerateConfig_StoredShadowsBuiltin(t *testing.T) {
	setupCLITest(t)

	p := passphrase.ToPreset(passphrase.PresetWords, passphrase.Config{
		WordCount: 7, Length: 48, NumberLength: 2, DelimiterLength: 1,
	})
	p.Wordlist = "team-list"
	if _, err := db.AddPreset(p); err != nil {
		t.Fatalf("AddPreset failed: %v", err)
	}

	cfg, _, list, err := resolveGenerateConfig(generateCmd)
	if err != nil {
		t.Fatalf("resolveGenerateConfig failed: %v", err)
	}
	if cfg.WordCount != 7 || cfg.Length != 48 {
		t.Fatalf("stored preset should shadow the built-in, got %+v", cfg)
	}
	if list != "team-list" {
		t.Fatalf("expected the stored preset's word-list binding, got %q", list)
	}
}

func TestResolveGenerateConfig_FlagOverrides(t *testing.T) {
	setupCLITest(t)

	if err := generateCmd.Flags().Set("words", "6"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if err := generateCmd.Flags().Set("numbers", "true"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	t.Cleanup(func() {
		genWords = 0
		genNumbers = false
	})

	cfg, _, _, err := resolveGenerateConfig(generateCmd)
	if err != nil {
		t.Fatalf("resolveGenerateConfig failed: %v", err)
	}
	if cfg.WordCount != 6 {
		t.Fatalf("expected --words to override the preset, got %d", cfg.WordCount)
	}
	if !cfg.IncludeNumbers {
		t.Fatal("expected --numbers to override the preset")
	}
}

func TestResolveGenerateConfig_UnknownPreset(t *testing.T) {
	setupCLITest(t)

	genPreset = "no-such-preset"
	t.Cleanup(func() { genPreset = "" })

	if _, _, _, err := resolveGenerateConfig(generateCmd); err == nil {
		t.Fatal("expected an error for an unknown preset")
	}
}
