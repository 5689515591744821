package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
	"github.com/toeirei/passforge/internal/db"
)

const testWordlist = "11111\taardvark\n11112\tabacus\n11113\tabdomen\n11114\tabandon\n"

func setupTUITest(t *testing.T) {
	t.Helper()
	if err := db.InitDB("sqlite", "file:test_tui_"+t.Name()+"?mode=memory&cache=shared"); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte(testWordlist), 0o644); err != nil {
		t.Fatalf("write wordlist: %v", err)
	}
	viper.Set("wordlist.path", path)
	t.Cleanup(func() { viper.Set("wordlist.path", "") })
}

func TestGenerateModel_ProducesCandidates(t *testing.T) {
	setupTUITest(t)

	m := newGenerateModel()
	if m.err != nil {
		t.Fatalf("newGenerateModel errored: %v", m.err)
	}
	if len(m.candidates) != candidateCount {
		t.Fatalf("expected %d candidates, got %d", candidateCount, len(m.candidates))
	}
	for _, c := range m.candidates {
		out := c.Reveal()
		if len(out) < m.cfg.Length {
			t.Fatalf("candidate shorter than length floor: %q", out)
		}
	}
	if m.entropy <= 0 {
		t.Fatal("expected a positive entropy estimate")
	}
}

func TestGenerateModel_WordCountKeys(t *testing.T) {
	setupTUITest(t)

	m := newGenerateModel()
	if m.err != nil {
		t.Fatalf("newGenerateModel errored: %v", m.err)
	}
	before := m.cfg.WordCount

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
	m = updated.(*generateModel)
	if m.cfg.WordCount != before+1 {
		t.Fatalf("expected word count %d, got %d", before+1, m.cfg.WordCount)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	m = updated.(*generateModel)
	if m.cfg.WordCount != before {
		t.Fatalf("expected word count %d, got %d", before, m.cfg.WordCount)
	}
}

func TestGenerateModel_ZeroCandidates(t *testing.T) {
	setupTUITest(t)

	m := newGenerateModel()
	if m.err != nil {
		t.Fatalf("newGenerateModel errored: %v", m.err)
	}
	m.zeroCandidates()
	for _, c := range m.candidates {
		if strings.Trim(c.Reveal(), "\x00") != "" {
			t.Fatal("expected candidate buffers to be zeroed")
		}
	}
}

func TestGenerateModel_LogsMetadataOnly(t *testing.T) {
	setupTUITest(t)

	m := newGenerateModel()
	if m.err != nil {
		t.Fatalf("newGenerateModel errored: %v", m.err)
	}

	entries, err := db.GetAllAuditLogEntries()
	if err != nil {
		t.Fatalf("GetAllAuditLogEntries failed: %v", err)
	}
	found := false
	for _, e := range entries {
		if e.Action == "GENERATE" {
			found = true
		}
		for _, c := range m.candidates {
			if c.Reveal() != "" && strings.Contains(e.Details, c.Reveal()) {
				t.Fatalf("audit details leak passphrase material: %q", e.Details)
			}
		}
	}
	if !found {
		t.Fatal("expected a GENERATE audit entry")
	}
}

func TestAuditLogModel_FilterByActionColumn(t *testing.T) {
	setupTUITest(t)

	if err := db.LogAction("ADD_PRESET", "preset: x"); err != nil {
		t.Fatalf("LogAction failed: %v", err)
	}
	if err := db.LogAction("GENERATE", "preset: y"); err != nil {
		t.Fatalf("LogAction failed: %v", err)
	}

	m := newAuditLogModel()
	if m.err != nil {
		t.Fatalf("newAuditLogModel errored: %v", m.err)
	}

	m.filter = "generate"
	m.filterCol = 3 // action column
	m.rebuildTableRows()
	if len(m.table.Rows()) != 1 {
		t.Fatalf("expected 1 filtered row, got %d", len(m.table.Rows()))
	}

	m.filter = ""
	m.rebuildTableRows()
	if len(m.table.Rows()) != 2 {
		t.Fatalf("expected 2 rows unfiltered, got %d", len(m.table.Rows()))
	}
}

func TestPresetsModel_ListsBuiltins(t *testing.T) {
	setupTUITest(t)

	m := newPresetsModel()
	if m.err != nil {
		t.Fatalf("newPresetsModel errored: %v", m.err)
	}
	if len(m.table.Rows()) != len(builtinPresetNames()) {
		t.Fatalf("expected %d builtin rows, got %d", len(builtinPresetNames()), len(m.table.Rows()))
	}
}
