package db

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/toeirei/passforge/internal/model"
)

func newTestDB(t *testing.T) string {
	t.Helper()
	dsn := "file:test_" + t.Name() + "?mode=memory&cache=shared"
	if err := InitDB("sqlite", dsn); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	return dsn
}

func TestInitDB_Migrations_Applied(t *testing.T) {
	dsn := newTestDB(t)

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open sql.DB for inspection: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()

	for _, table := range []string{"presets", "wordlists", "known_hosts", "audit_log", "schema_migrations"} {
		var name string
		err := sqlDB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s after migrations: %v", table, err)
		}
	}

	// Migration must be recorded so a second run is a no-op.
	var version string
	if err := sqlDB.QueryRow("SELECT version FROM schema_migrations").Scan(&version); err != nil {
		t.Fatalf("expected a recorded migration: %v", err)
	}
	if version != "0001_init" {
		t.Fatalf("unexpected migration version: %s", version)
	}
}

func TestInitDB_UnsupportedType(t *testing.T) {
	if _, err := NewStoreFromDSN("oracle", "whatever"); err == nil {
		t.Fatal("expected error for unsupported database type")
	}
}

func TestPreset_RoundTrip(t *testing.T) {
	_ = newTestDB(t)

	p := model.Preset{
		Name:              "team-vpn",
		WordCount:         5,
		Length:            32,
		NumberLength:      2,
		DelimiterLength:   1,
		IncludeNumbers:    true,
		IncludeDelimiters: true,
	}
	id, err := AddPreset(p)
	if err != nil {
		t.Fatalf("AddPreset failed: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero preset id")
	}

	got, err := GetPresetByName("team-vpn")
	if err != nil {
		t.Fatalf("GetPresetByName failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected preset, got nil")
	}
	if got.WordCount != 5 || got.Length != 32 || !got.IncludeNumbers {
		t.Fatalf("preset options did not round-trip: %+v", got)
	}

	missing, err := GetPresetByName("nope")
	if err != nil {
		t.Fatalf("GetPresetByName for missing name errored: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing preset, got %+v", missing)
	}
}

func TestPreset_DuplicateName(t *testing.T) {
	_ = newTestDB(t)

	p := model.Preset{Name: "dup", WordCount: 3, Length: 20}
	if _, err := AddPreset(p); err != nil {
		t.Fatalf("first AddPreset failed: %v", err)
	}
	_, err := AddPreset(p)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestPreset_Rename(t *testing.T) {
	_ = newTestDB(t)

	if _, err := AddPreset(model.Preset{Name: "old", WordCount: 3, Length: 20}); err != nil {
		t.Fatalf("AddPreset failed: %v", err)
	}
	if err := RenamePreset("old", "new"); err != nil {
		t.Fatalf("RenamePreset failed: %v", err)
	}
	got, err := GetPresetByName("new")
	if err != nil || got == nil {
		t.Fatalf("expected renamed preset, got %v / %v", got, err)
	}

	if err := RenamePreset("ghost", "anything"); err == nil {
		t.Fatal("expected error renaming a missing preset")
	}

	// Renaming onto an existing name hits the unique constraint.
	if _, err := AddPreset(model.Preset{Name: "other", WordCount: 3, Length: 20}); err != nil {
		t.Fatalf("AddPreset failed: %v", err)
	}
	if err := RenamePreset("other", "new"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestPreset_Delete(t *testing.T) {
	_ = newTestDB(t)

	if _, err := AddPreset(model.Preset{Name: "gone", WordCount: 3, Length: 20}); err != nil {
		t.Fatalf("AddPreset failed: %v", err)
	}
	if err := DeletePreset("gone"); err != nil {
		t.Fatalf("DeletePreset failed: %v", err)
	}
	got, err := GetPresetByName("gone")
	if err != nil {
		t.Fatalf("GetPresetByName failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected preset to be deleted, got %+v", got)
	}
}

func TestWordlist_RegisterAndFetchRecord(t *testing.T) {
	_ = newTestDB(t)

	w := model.WordlistSource{
		Name:      "eff-large",
		Path:      "/var/cache/passforge/eff_large_wordlist.txt",
		SourceURI: "https://www.eff.org/files/2016/07/18/eff_large_wordlist.txt",
	}
	if _, err := RegisterWordlist(w); err != nil {
		t.Fatalf("RegisterWordlist failed: %v", err)
	}
	if _, err := RegisterWordlist(w); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on re-register, got %v", err)
	}

	if err := RecordWordlistFetch("eff-large", "abc123", 7776, "2026-08-24T10:00:00Z"); err != nil {
		t.Fatalf("RecordWordlistFetch failed: %v", err)
	}
	got, err := GetWordlistByName("eff-large")
	if err != nil || got == nil {
		t.Fatalf("expected wordlist, got %v / %v", got, err)
	}
	if got.Words != 7776 || got.Checksum != "abc123" {
		t.Fatalf("fetch record did not stick: %+v", got)
	}

	if err := RecordWordlistFetch("ghost", "x", 1, ""); err == nil {
		t.Fatal("expected error recording fetch for unknown wordlist")
	}

	if err := DeleteWordlist("eff-large"); err != nil {
		t.Fatalf("DeleteWordlist failed: %v", err)
	}
	all, err := GetAllWordlists()
	if err != nil {
		t.Fatalf("GetAllWordlists failed: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty wordlist table, got %d rows", len(all))
	}
}

func TestKnownHost_AddAndGet(t *testing.T) {
	_ = newTestDB(t)

	key, err := GetKnownHostKey("unseen.example.com")
	if err != nil {
		t.Fatalf("GetKnownHostKey failed: %v", err)
	}
	if key != "" {
		t.Fatalf("expected empty key for unknown host, got %q", key)
	}

	if err := AddKnownHostKey("wordlists.example.com", "ssh-ed25519 AAAA..."); err != nil {
		t.Fatalf("AddKnownHostKey failed: %v", err)
	}
	key, err = GetKnownHostKey("wordlists.example.com")
	if err != nil {
		t.Fatalf("GetKnownHostKey failed: %v", err)
	}
	if key != "ssh-ed25519 AAAA..." {
		t.Fatalf("unexpected key: %q", key)
	}

	// Re-trusting a host replaces the pinned key.
	if err := AddKnownHostKey("wordlists.example.com", "ssh-ed25519 BBBB..."); err != nil {
		t.Fatalf("AddKnownHostKey (replace) failed: %v", err)
	}
	key, _ = GetKnownHostKey("wordlists.example.com")
	if key != "ssh-ed25519 BBBB..." {
		t.Fatalf("expected replaced key, got %q", key)
	}
}

func TestAuditLog_MutationsAreLogged(t *testing.T) {
	_ = newTestDB(t)

	if _, err := AddPreset(model.Preset{Name: "audited", WordCount: 3, Length: 20}); err != nil {
		t.Fatalf("AddPreset failed: %v", err)
	}
	if err := DeletePreset("audited"); err != nil {
		t.Fatalf("DeletePreset failed: %v", err)
	}

	entries, err := GetAllAuditLogEntries()
	if err != nil {
		t.Fatalf("GetAllAuditLogEntries failed: %v", err)
	}
	actions := map[string]bool{}
	for _, e := range entries {
		actions[e.Action] = true
		if e.Username == "" {
			t.Fatalf("audit entry missing username: %+v", e)
		}
	}
	if !actions["ADD_PRESET"] || !actions["DELETE_PRESET"] {
		t.Fatalf("expected ADD_PRESET and DELETE_PRESET entries, got %v", actions)
	}
}

func TestAuditLog_RecentLimit(t *testing.T) {
	_ = newTestDB(t)

	for i := 0; i < 5; i++ {
		if err := LogAction("GENERATE", fmt.Sprintf("preset: standard, run: %d", i)); err != nil {
			t.Fatalf("LogAction failed: %v", err)
		}
	}
	recent, err := GetRecentAuditLogEntries(3)
	if err != nil {
		t.Fatalf("GetRecentAuditLogEntries failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(recent))
	}
}

func TestBackup_RoundTrip(t *testing.T) {
	_ = newTestDB(t)

	if _, err := AddPreset(model.Preset{Name: "keeper", WordCount: 4, Length: 24}); err != nil {
		t.Fatalf("AddPreset failed: %v", err)
	}
	if _, err := RegisterWordlist(model.WordlistSource{Name: "short", Path: "/tmp/short.txt", SourceURI: ""}); err != nil {
		t.Fatalf("RegisterWordlist failed: %v", err)
	}
	if err := AddKnownHostKey("host.example.com", "ssh-ed25519 AAAA..."); err != nil {
		t.Fatalf("AddKnownHostKey failed: %v", err)
	}

	backup, err := ExportDataForBackup()
	if err != nil {
		t.Fatalf("ExportDataForBackup failed: %v", err)
	}
	if backup.SchemaVersion != model.BackupSchemaVersion {
		t.Fatalf("unexpected schema version: %d", backup.SchemaVersion)
	}
	if len(backup.Presets) != 1 || len(backup.Wordlists) != 1 || len(backup.KnownHosts) != 1 {
		t.Fatalf("unexpected backup contents: %+v", backup)
	}

	// Wipe and restore.
	if err := DeletePreset("keeper"); err != nil {
		t.Fatalf("DeletePreset failed: %v", err)
	}
	if err := ImportDataFromBackup(backup); err != nil {
		t.Fatalf("ImportDataFromBackup failed: %v", err)
	}
	got, err := GetPresetByName("keeper")
	if err != nil || got == nil {
		t.Fatalf("expected restored preset, got %v / %v", got, err)
	}
	if got.WordCount != 4 {
		t.Fatalf("restored preset lost options: %+v", got)
	}
}

func TestBackup_IntegrateKeepsExisting(t *testing.T) {
	_ = newTestDB(t)

	if _, err := AddPreset(model.Preset{Name: "local", WordCount: 6, Length: 40}); err != nil {
		t.Fatalf("AddPreset failed: %v", err)
	}

	backup := &model.BackupData{
		SchemaVersion: model.BackupSchemaVersion,
		Presets: []model.Preset{
			{Name: "local", WordCount: 2, Length: 16},
			{Name: "imported", WordCount: 3, Length: 20},
		},
	}
	if err := IntegrateDataFromBackup(backup); err != nil {
		t.Fatalf("IntegrateDataFromBackup failed: %v", err)
	}

	local, err := GetPresetByName("local")
	if err != nil || local == nil {
		t.Fatalf("expected local preset, got %v / %v", local, err)
	}
	if local.WordCount != 6 {
		t.Fatalf("integrate must not overwrite existing rows: %+v", local)
	}
	imported, err := GetPresetByName("imported")
	if err != nil || imported == nil {
		t.Fatalf("expected imported preset, got %v / %v", imported, err)
	}
}
