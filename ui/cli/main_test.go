package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/toeirei/passforge/internal/config"
	"github.com/toeirei/passforge/internal/db"
	"github.com/toeirei/passforge/internal/i18n"
	"github.com/toeirei/passforge/internal/model"
)

func setupCLITest(t *testing.T) {
	t.Helper()
	if err := db.InitDB("sqlite", "file:test_cli_"+t.Name()+"?mode=memory&cache=shared"); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
}

func TestNewRootCmd_HasExpectedSubcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{
		"generate", "hash", "preset", "wordlist", "trust-host",
		"history", "backup", "restore", "db-maintain", "version",
	}
	have := map[string]bool{}
	for _, c := range root.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Fatalf("missing subcommand %q", name)
		}
	}
}

func TestCanonicalizeHostPort(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"files.example.com", "files.example.com:22"},
		{"files.example.com:2222", "files.example.com:2222"},
		{"fetch@files.example.com", "files.example.com:22"},
		{"fetch@files.example.com:2222", "files.example.com:2222"},
	}
	for _, c := range cases {
		if got := canonicalizeHostPort(c.in); got != c.want {
			t.Fatalf("canonicalizeHostPort(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFileConfigSaver_PersistsLanguage(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	prev := appConfig
	t.Cleanup(func() {
		appConfig = prev
		i18n.Init("en")
	})
	appConfig = config.Config{Language: "en"}
	i18n.Init("de")

	if err := (fileConfigSaver{}).Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	path, err := config.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(raw), "language: de") {
		t.Fatalf("selected language not persisted, got:\n%s", raw)
	}
}

func TestBackupFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json.zst")

	data := &model.BackupData{
		SchemaVersion: model.BackupSchemaVersion,
		Presets: []model.Preset{
			{Name: "team", WordCount: 5, Length: 32, NumberLength: 2, DelimiterLength: 1},
		},
		KnownHosts: []model.KnownHost{
			{Hostname: "files.example.com:22", Key: "ssh-ed25519 AAAA test"},
		},
	}
	if err := writeCompressedBackup(path, data); err != nil {
		t.Fatalf("writeCompressedBackup failed: %v", err)
	}

	got, err := readCompressedBackup(path)
	if err != nil {
		t.Fatalf("readCompressedBackup failed: %v", err)
	}
	if got.SchemaVersion != model.BackupSchemaVersion {
		t.Fatalf("schema version mismatch: %d", got.SchemaVersion)
	}
	if len(got.Presets) != 1 || got.Presets[0].Name != "team" {
		t.Fatalf("preset did not survive the round trip: %+v", got.Presets)
	}
	if len(got.KnownHosts) != 1 || got.KnownHosts[0].Hostname != "files.example.com:22" {
		t.Fatalf("known host did not survive the round trip: %+v", got.KnownHosts)
	}

	// The file should actually be zstd, not plain JSON.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backup file: %v", err)
	}
	if len(raw) < 4 || raw[0] != 0x28 || raw[1] != 0xb5 || raw[2] != 0x2f || raw[3] != 0xfd {
		t.Fatal("backup file is missing the zstd magic bytes")
	}
}
