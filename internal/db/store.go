// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"github.com/toeirei/passforge/internal/model"
)

// Store defines the interface for all database operations in PassForge.
// This allows for multiple database backends to be implemented.
type Store interface {
	// Preset methods
	AddPreset(p model.Preset) (int, error)
	GetPresetByName(name string) (*model.Preset, error)
	GetAllPresets() ([]model.Preset, error)
	DeletePreset(name string) error
	RenamePreset(oldName, newName string) error

	// Wordlist methods
	RegisterWordlist(w model.WordlistSource) (int, error)
	GetWordlistByName(name string) (*model.WordlistSource, error)
	GetAllWordlists() ([]model.WordlistSource, error)
	DeleteWordlist(name string) error
	RecordWordlistFetch(name, checksum string, words int, fetchedAt string) error

	// Host Key methods
	GetKnownHostKey(hostname string) (string, error)
	AddKnownHostKey(hostname, key string) error

	// Audit Log methods
	GetAllAuditLogEntries() ([]model.AuditLogEntry, error)
	GetRecentAuditLogEntries(limit int) ([]model.AuditLogEntry, error)
	LogAction(action string, details string) error

	// Backup methods
	ExportDataForBackup() (*model.BackupData, error)
	ImportDataFromBackup(backup *model.BackupData) error
	IntegrateDataFromBackup(backup *model.BackupData) error
}

// AddPreset stores a new preset.
func AddPreset(p model.Preset) (int, error) {
	return store.AddPreset(p)
}

// GetPresetByName retrieves a stored preset by name, or (nil, nil) when absent.
func GetPresetByName(name string) (*model.Preset, error) {
	return store.GetPresetByName(name)
}

// GetAllPresets retrieves all stored presets.
func GetAllPresets() ([]model.Preset, error) {
	return store.GetAllPresets()
}

// DeletePreset removes a stored preset by name.
func DeletePreset(name string) error {
	return store.DeletePreset(name)
}

// RenamePreset changes a stored preset's name.
func RenamePreset(oldName, newName string) error {
	return store.RenamePreset(oldName, newName)
}

// RegisterWordlist records a new wordlist source.
func RegisterWordlist(w model.WordlistSource) (int, error) {
	return store.RegisterWordlist(w)
}

// GetWordlistByName retrieves a registered wordlist source by name, or (nil, nil) when absent.
func GetWordlistByName(name string) (*model.WordlistSource, error) {
	return store.GetWordlistByName(name)
}

// GetAllWordlists retrieves all registered wordlist sources.
func GetAllWordlists() ([]model.WordlistSource, error) {
	return store.GetAllWordlists()
}

// DeleteWordlist removes a registered wordlist source by name.
func DeleteWordlist(name string) error {
	return store.DeleteWordlist(name)
}

// RecordWordlistFetch updates the checksum, word count and fetch time of a wordlist source.
func RecordWordlistFetch(name, checksum string, words int, fetchedAt string) error {
	return store.RecordWordlistFetch(name, checksum, words, fetchedAt)
}

// GetKnownHostKey retrieves the trusted public key for a given hostname.
func GetKnownHostKey(hostname string) (string, error) {
	return store.GetKnownHostKey(hostname)
}

// AddKnownHostKey adds a new trusted host key to the database.
func AddKnownHostKey(hostname, key string) error {
	return store.AddKnownHostKey(hostname, key)
}

// GetAllAuditLogEntries retrieves all entries from the audit log, most recent first.
func GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	return store.GetAllAuditLogEntries()
}

// GetRecentAuditLogEntries retrieves the most recent limit audit log entries.
func GetRecentAuditLogEntries(limit int) ([]model.AuditLogEntry, error) {
	return store.GetRecentAuditLogEntries(limit)
}

// LogAction records an audit trail event.
func LogAction(action string, details string) error {
	return store.LogAction(action, details)
}

// ExportDataForBackup retrieves all data from the database for a backup.
func ExportDataForBackup() (*model.BackupData, error) {
	return store.ExportDataForBackup()
}

// ImportDataFromBackup restores the database from a backup data structure.
func ImportDataFromBackup(backup *model.BackupData) error {
	return store.ImportDataFromBackup(backup)
}

// IntegrateDataFromBackup restores the database from a backup data structure in a non-destructive way.
func IntegrateDataFromBackup(backup *model.BackupData) error {
	return store.IntegrateDataFromBackup(backup)
}
