// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for PassForge.
// This file contains the bun-backed implementation of the Store interface.
// A single implementation serves all supported engines; dialect differences
// are handled by the bun.DB's dialect.
package db // import "github.com/toeirei/passforge/internal/db"

import (
	"fmt"

	"github.com/toeirei/passforge/internal/model"
	"github.com/uptrace/bun"
)

// bunStore is the bun-backed implementation of the Store interface.
type bunStore struct {
	bun *bun.DB
}

// AddPreset stores a new preset.
func (s *bunStore) AddPreset(p model.Preset) (int, error) {
	id, err := AddPresetBun(s.bun, p)
	if err == nil {
		_ = s.LogAction("ADD_PRESET", fmt.Sprintf("preset: %s, words: %d, length: %d", p.Name, p.WordCount, p.Length))
	}
	return id, err
}

// GetPresetByName retrieves a stored preset by name.
func (s *bunStore) GetPresetByName(name string) (*model.Preset, error) {
	return GetPresetByNameBun(s.bun, name)
}

// GetAllPresets retrieves all stored presets.
func (s *bunStore) GetAllPresets() ([]model.Preset, error) {
	return GetAllPresetsBun(s.bun)
}

// DeletePreset removes a stored preset by name.
func (s *bunStore) DeletePreset(name string) error {
	err := DeletePresetBun(s.bun, name)
	if err == nil {
		_ = s.LogAction("DELETE_PRESET", fmt.Sprintf("preset: %s", name))
	}
	return err
}

// RenamePreset changes a stored preset's name.
func (s *bunStore) RenamePreset(oldName, newName string) error {
	err := RenamePresetBun(s.bun, oldName, newName)
	if err == nil {
		_ = s.LogAction("RENAME_PRESET", fmt.Sprintf("preset: %s -> %s", oldName, newName))
	}
	return err
}

// RegisterWordlist records a new wordlist source.
func (s *bunStore) RegisterWordlist(w model.WordlistSource) (int, error) {
	id, err := RegisterWordlistBun(s.bun, w)
	if err == nil {
		_ = s.LogAction("REGISTER_WORDLIST", fmt.Sprintf("wordlist: %s, source: %s", w.Name, w.SourceURI))
	}
	return id, err
}

// GetWordlistByName retrieves a registered wordlist source by name.
func (s *bunStore) GetWordlistByName(name string) (*model.WordlistSource, error) {
	return GetWordlistByNameBun(s.bun, name)
}

// GetAllWordlists retrieves all registered wordlist sources.
func (s *bunStore) GetAllWordlists() ([]model.WordlistSource, error) {
	return GetAllWordlistsBun(s.bun)
}

// DeleteWordlist removes a registered wordlist source by name.
func (s *bunStore) DeleteWordlist(name string) error {
	err := DeleteWordlistBun(s.bun, name)
	if err == nil {
		_ = s.LogAction("DELETE_WORDLIST", fmt.Sprintf("wordlist: %s", name))
	}
	return err
}

// RecordWordlistFetch updates the measurements of a wordlist source after a fetch.
func (s *bunStore) RecordWordlistFetch(name, checksum string, words int, fetchedAt string) error {
	err := RecordWordlistFetchBun(s.bun, name, checksum, words, fetchedAt)
	if err == nil {
		_ = s.LogAction("FETCH_WORDLIST", fmt.Sprintf("wordlist: %s, words: %d", name, words))
	}
	return err
}

// GetKnownHostKey retrieves the trusted public key for a given hostname.
func (s *bunStore) GetKnownHostKey(hostname string) (string, error) {
	return GetKnownHostKeyBun(s.bun, hostname)
}

// AddKnownHostKey adds a new trusted host key to the database.
func (s *bunStore) AddKnownHostKey(hostname, key string) error {
	err := AddKnownHostKeyBun(s.bun, hostname, key)
	if err == nil {
		_ = s.LogAction("TRUST_HOST", fmt.Sprintf("host: %s", hostname))
	}
	return err
}

// GetAllAuditLogEntries retrieves all audit log entries, most recent first.
func (s *bunStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	return GetAllAuditLogEntriesBun(s.bun)
}

// GetRecentAuditLogEntries retrieves the most recent limit audit log entries.
func (s *bunStore) GetRecentAuditLogEntries(limit int) ([]model.AuditLogEntry, error) {
	return GetRecentAuditLogEntriesBun(s.bun, limit)
}

// LogAction records an audit trail event.
func (s *bunStore) LogAction(action string, details string) error {
	return LogActionBun(s.bun, action, details)
}

// ExportDataForBackup retrieves all data from the database for a backup.
func (s *bunStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

// ImportDataFromBackup restores the database from a backup data structure.
func (s *bunStore) ImportDataFromBackup(backup *model.BackupData) error {
	return ImportDataFromBackupBun(s.bun, backup)
}

// IntegrateDataFromBackup restores from a backup in a non-destructive way.
func (s *bunStore) IntegrateDataFromBackup(backup *model.BackupData) error {
	return IntegrateDataFromBackupBun(s.bun, backup)
}
