// Copyright (c) 2025 ToeiRei
// PassForge - diceware passphrase generator
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model defines the shared data structures PassForge persists and
// passes between its layers. These are plain structs; all database mapping
// lives in the db package.
package model

import "fmt"

// Preset is a stored bundle of generator options. Built-in presets live in
// the passphrase package; rows in the presets table shadow built-ins of the
// same name when resolving.
type Preset struct {
	ID                   int    `json:"id"`
	Name                 string `json:"name"`
	WordCount            int    `json:"word_count"`
	Length               int    `json:"length"`
	NumberLength         int    `json:"number_length"`
	DelimiterLength      int    `json:"delimiter_length"`
	Delimiter            string `json:"delimiter"`
	IncludeNumbers       bool   `json:"include_numbers"`
	IncludeDelimiters    bool   `json:"include_delimiters"`
	RandomizeDelimiters  bool   `json:"randomize_delimiters"`
	UseComplexDelimiters bool   `json:"use_complex_delimiters"`
	Wordlist             string `json:"wordlist"` // registered word list name, empty = default
}

// String returns a short human-readable summary (e.g. "strong: 5 words / 32 chars min").
func (p Preset) String() string {
	return fmt.Sprintf("%s: %d words / %d chars min", p.Name, p.WordCount, p.Length)
}

// WordlistSource describes a registered word list: where it came from, where
// the cached copy lives, and what we measured when it was last fetched.
type WordlistSource struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	SourceURI string `json:"source_uri"`
	Checksum  string `json:"checksum"` // SHA-256 of the cached file, hex
	Words     int    `json:"words"`    // word count at last fetch, 0 = never fetched
	FetchedAt string `json:"fetched_at"`
}

// String returns the name@uri representation used in logs and listings.
func (w WordlistSource) String() string {
	return fmt.Sprintf("%s (%s)", w.Name, w.SourceURI)
}

// KnownHost pins the public key of an SFTP word-list source host.
type KnownHost struct {
	Hostname string `json:"hostname"`
	Key      string `json:"key"`
}

// AuditLogEntry is one row of the audit trail. Details hold metadata only;
// passphrase material never appears here.
type AuditLogEntry struct {
	ID        int    `json:"id"`
	Timestamp string `json:"timestamp"`
	Username  string `json:"username"`
	Action    string `json:"action"`
	Details   string `json:"details"`
}

// BackupData is a container for all data exported by `passforge backup`.
type BackupData struct {
	// SchemaVersion helps in handling migrations during restore.
	SchemaVersion int `json:"schema_version"`

	Presets         []Preset         `json:"presets"`
	Wordlists       []WordlistSource `json:"wordlists"`
	KnownHosts      []KnownHost      `json:"known_hosts"`
	AuditLogEntries []AuditLogEntry  `json:"audit_log_entries"`
}

// BackupSchemaVersion is the schema version written into new backups.
const BackupSchemaVersion = 1
