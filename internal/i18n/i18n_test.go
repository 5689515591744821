// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.
package i18n

import (
	"testing"
)

func TestInitAndAvailableLocales(t *testing.T) {
	Init("en")
	if GetLang() != "en" {
		t.Fatalf("expected lang 'en', got %q", GetLang())
	}

	av := GetAvailableLocales()
	for _, k := range []string{"en", "de"} {
		if _, ok := av[k]; !ok {
			t.Fatalf("expected available locale %q to be present", k)
		}
	}
	if av["de"] != "Deutsch" {
		t.Fatalf("unexpected display name for de: %v", av["de"])
	}
}

func TestT_BasicAndFormatting(t *testing.T) {
	Init("en")

	if got := T("all"); got != "All" {
		t.Fatalf("expected 'All', got %q", got)
	}

	// fmt-style formatting via template args
	got := T("active.wordlist.does.not.exist")
	if got != "active.wordlist.does.not.exist" {
		t.Fatalf("expected unknown ID fallback, got %q", got)
	}
	if got := T("backup.cli_success", "out.zst"); got != "Backup written to out.zst" {
		t.Fatalf("unexpected formatted translation: %q", got)
	}

	// switch language to German
	SetLang("de")
	if GetLang() != "de" {
		t.Fatalf("expected lang 'de', got %q", GetLang())
	}
	if got := T("all"); got != "Alle" {
		t.Fatalf("expected German 'Alle', got %q", got)
	}

	SetLang("en")
}
